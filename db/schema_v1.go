package db

type v1Schema struct{}

func (s v1Schema) Deploy(db *DB) error {
	err := db.Exec(`CREATE TABLE schema_info (
               version INTEGER
             )`)
	if err != nil {
		return err
	}

	err = db.Exec(`INSERT INTO schema_info VALUES (1)`)
	if err != nil {
		return err
	}

	switch db.Driver {
	case "mysql":
		err = db.Exec(`CREATE TABLE posts (
               board    VARCHAR(64) NOT NULL,
               number   BIGINT NOT NULL,
               thread   BIGINT NOT NULL DEFAULT 0,
               markup   TEXT NOT NULL,
               html     TEXT NOT NULL,
               pwhash   VARCHAR(128) NOT NULL DEFAULT '',
               file     VARCHAR(255) NOT NULL DEFAULT '',
               created  BIGINT NOT NULL,
               PRIMARY KEY (board, number)
             )`)
	default:
		err = db.Exec(`CREATE TABLE posts (
               board    TEXT NOT NULL,
               number   INTEGER NOT NULL,
               thread   INTEGER NOT NULL DEFAULT 0,
               markup   TEXT NOT NULL DEFAULT '',
               html     TEXT NOT NULL DEFAULT '',
               pwhash   TEXT NOT NULL DEFAULT '',
               file     TEXT NOT NULL DEFAULT '',
               created  INTEGER NOT NULL,
               PRIMARY KEY (board, number)
             )`)
	}
	if err != nil {
		return err
	}

	return nil
}
