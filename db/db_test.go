package db_test

import (
	"database/sql"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	// sql drivers
	_ "github.com/mattn/go-sqlite3"

	. "github.com/macaba/mcweb/db"
)

var _ = Describe("Database", func() {
	Describe("Connecting to the database", func() {
		Context("With an invalid driver", func() {
			It("should fail", func() {
				db := &DB{
					Driver: "invalid",
					DSN:    "does-not-matter",
				}

				Ω(db.Connect()).Should(HaveOccurred())
				Ω(db.Connected()).Should(BeFalse())
				Ω(db.Disconnect()).Should(Succeed())
			})
		})

		Context("With an in-memory SQLite database", func() {
			It("should succeed", func() {
				db := &DB{
					Driver: "sqlite3",
					DSN:    ":memory:",
				}

				Ω(db.Connect()).Should(Succeed())
				Ω(db.Connected()).Should(BeTrue())
				Ω(db.Disconnect()).Should(Succeed())
			})
		})

		It("refuses to run queries when not connected", func() {
			db := &DB{Driver: "sqlite3", DSN: ":memory:"}
			Ω(db.Exec(`SELECT 1`)).Should(HaveOccurred())
		})
	})

	Describe("Running SQL queries", func() {
		var db *DB

		BeforeEach(func() {
			db = &DB{
				Driver: "sqlite3",
				DSN:    ":memory:",
			}
			Ω(db.Connect()).Should(Succeed())
			Ω(db.Exec(`CREATE TABLE things (type TEXT, number INTEGER)`)).Should(Succeed())
		})

		AfterEach(func() {
			db.Disconnect()
		})

		numberOfThingsIn := func(r *sql.Rows) int {
			var n int

			Ω(r).ShouldNot(BeNil())
			defer r.Close()
			Ω(r.Next()).Should(BeTrue())
			Ω(r.Scan(&n)).Should(Succeed())
			return n
		}

		It("can insert records", func() {
			Ω(db.Exec(`INSERT INTO things (type, number) VALUES (?, 0)`, "monkey")).Should(Succeed())

			r, err := db.Query(`SELECT number FROM things WHERE type = ?`, "monkey")
			Ω(err).Should(Succeed())
			Ω(numberOfThingsIn(r)).Should(Equal(0))
		})

		It("can update records", func() {
			Ω(db.Exec(`INSERT INTO things (type, number) VALUES (?, 0)`, "monkey")).Should(Succeed())
			Ω(db.Exec(`UPDATE things SET number = number + ? WHERE type = ?`, 42, "monkey")).Should(Succeed())

			r, err := db.Query(`SELECT number FROM things WHERE type = ?`, "monkey")
			Ω(err).Should(Succeed())
			Ω(numberOfThingsIn(r)).Should(Equal(42))
		})

		It("can alias queries", func() {
			Ω(db.Alias("new-thing", `INSERT INTO things (type, number) VALUES (?, 0)`)).Should(Succeed())
			Ω(db.Alias("increment", `UPDATE things SET number = number + ? WHERE type = ?`)).Should(Succeed())
			Ω(db.Alias("how-many", `SELECT number FROM things WHERE type = 'monkey'`)).Should(Succeed())

			Ω(db.Exec("new-thing", "monkey")).Should(Succeed())
			Ω(db.Exec("increment", 13, "monkey")).Should(Succeed())

			r, err := db.Query("how-many")
			Ω(err).Should(Succeed())
			Ω(numberOfThingsIn(r)).Should(Equal(13))
		})

		It("can scan rows into structs", func() {
			Ω(db.Exec(`INSERT INTO things (type, number) VALUES (?, ?)`, "lion", 3)).Should(Succeed())
			Ω(db.Exec(`INSERT INTO things (type, number) VALUES (?, ?)`, "tiger", 4)).Should(Succeed())

			var l []struct {
				Type   string `db:"type"`
				Number int    `db:"number"`
			}
			Ω(db.Select(&l, `SELECT type, number FROM things ORDER BY number`)).Should(Succeed())
			Ω(l).Should(HaveLen(2))
			Ω(l[1].Type).Should(Equal("tiger"))

			n, err := db.Count(`SELECT * FROM things`)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(n).Should(Equal(uint(2)))
		})

		It("propagates errors from the sql driver", func() {
			Ω(db.Exec(`DO STUFF IN SQL`)).Should(HaveOccurred())
		})
	})
})
