package core_test

import (
	"io/ioutil"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/macaba/mcweb/core"
)

var _ = Describe("Configuration", func() {
	var file string

	configure := func(yml string) (core.Config, error) {
		f, err := ioutil.TempFile("", "mcweb-config-")
		Ω(err).ShouldNot(HaveOccurred())
		file = f.Name()
		_, err = f.Write([]byte(yml))
		Ω(err).ShouldNot(HaveOccurred())
		f.Close()
		return core.ReadConfig(file)
	}

	AfterEach(func() {
		if file != "" {
			os.Remove(file)
		}
	})

	It("provides sane defaults", func() {
		c, err := core.ReadConfig("")
		Ω(err).ShouldNot(HaveOccurred())
		Ω(c.Addr).Should(Equal(":8080"))
		Ω(c.Driver).Should(Equal("sqlite3"))
		Ω(c.Boards).Should(Equal([]string{"b"}))
		Ω(c.Markup).Should(Equal("wakaba"))
		Ω(c.Storage.Type).Should(Equal("fs"))
	})

	It("reads settings from YAML", func() {
		c, err := configure(`---
listen_addr: 127.0.0.1:9000
database_dsn: /var/lib/mcweb/mcweb.db
boards: [a, b, tech]
markup: markdown
bcrypt_cost: 12
storage:
  type: s3
  s3:
    bucket: attachments
    access_key: AKI
    secret_key: sekrit
prometheus:
  username: scraper
`)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(c.Addr).Should(Equal("127.0.0.1:9000"))
		Ω(c.Database).Should(Equal("/var/lib/mcweb/mcweb.db"))
		Ω(c.Boards).Should(Equal([]string{"a", "b", "tech"}))
		Ω(c.Markup).Should(Equal("markdown"))
		Ω(c.BcryptCost).Should(Equal(12))
		Ω(c.Storage.Type).Should(Equal("s3"))
		Ω(c.Storage.S3.Bucket).Should(Equal("attachments"))
		Ω(c.Prometheus.Username).Should(Equal("scraper"))
	})

	It("fails on a missing configuration file", func() {
		_, err := core.ReadConfig("/path/to/nowhere.yml")
		Ω(err).Should(HaveOccurred())
	})

	It("fails on malformed YAML", func() {
		_, err := configure("boards: [a\n")
		Ω(err).Should(HaveOccurred())
	})

	DescribeTable("rejects invalid settings",
		func(yml string) {
			_, err := configure(yml)
			Ω(err).Should(HaveOccurred())
		},
		Entry("unknown database driver", "database_driver: postgres\n"),
		Entry("no boards", "boards: []\n"),
		Entry("bad board name", "boards: [B/../]\n"),
		Entry("duplicate board", "boards: [a, a]\n"),
		Entry("unknown markup", "markup: bbcode\n"),
		Entry("weak bcrypt cost", "bcrypt_cost: 1\n"),
		Entry("no file size", "max_file_size: 0\n"),
		Entry("no bus slots", "mbus: {max_slots: 0, backlog: 1}\n"),
	)
})
