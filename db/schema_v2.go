package db

type v2Schema struct{}

func (s v2Schema) Deploy(db *DB) error {
	err := db.Exec(`CREATE INDEX posts_by_thread ON posts (board, thread)`)
	if err != nil {
		return err
	}

	err = db.Exec(`UPDATE schema_info SET version = 2`)
	if err != nil {
		return err
	}

	return nil
}
