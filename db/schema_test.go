package db_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	// sql drivers
	_ "github.com/mattn/go-sqlite3"

	. "github.com/macaba/mcweb/db"
)

func Database(sqls ...string) (*DB, error) {
	db := &DB{
		Driver: "sqlite3",
		DSN:    ":memory:",
	}

	if err := db.Connect(); err != nil {
		return nil, err
	}

	if err := db.Setup(); err != nil {
		db.Disconnect()
		return nil, err
	}

	for _, s := range sqls {
		if err := db.Exec(s); err != nil {
			db.Disconnect()
			return nil, err
		}
	}

	return db, nil
}

var _ = Describe("Database Schema", func() {
	var db *DB

	BeforeEach(func() {
		db = &DB{
			Driver: "sqlite3",
			DSN:    ":memory:",
		}
		Ω(db.Connect()).Should(Succeed())
	})

	AfterEach(func() {
		db.Disconnect()
	})

	It("should not create tables until Setup() is called", func() {
		Ω(db.Exec("SELECT * FROM schema_info")).Should(HaveOccurred())
		Ω(db.SchemaVersion()).Should(Equal(0))
	})

	It("should deploy every schema version on Setup()", func() {
		Ω(db.Setup()).Should(Succeed())
		Ω(db.SchemaVersion()).Should(Equal(CurrentSchema))
		Ω(db.CheckCurrentSchema()).Should(Succeed())
		Ω(db.Exec("SELECT * FROM posts")).Should(Succeed())
	})

	It("should be safe to call Setup() more than once", func() {
		Ω(db.Setup()).Should(Succeed())
		Ω(db.Setup()).Should(Succeed())
		Ω(db.SchemaVersion()).Should(Equal(CurrentSchema))
	})

	It("should refuse to downgrade a newer schema", func() {
		Ω(db.Setup()).Should(Succeed())
		Ω(db.Exec(`UPDATE schema_info SET version = 4000`)).Should(Succeed())
		Ω(db.Setup()).Should(HaveOccurred())
		Ω(db.CheckCurrentSchema()).Should(HaveOccurred())
	})
})
