package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/macaba/mcweb/client/v1/macaba"
)

var _ = Describe("Client Configuration", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = ioutil.TempDir("", "mcb-")
		Ω(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("starts out empty when there is no file yet", func() {
		cfg, err := ReadConfig(filepath.Join(dir, "nope"))
		Ω(err).ShouldNot(HaveOccurred())
		Ω(cfg.Sites).Should(BeEmpty())

		site, err := cfg.Site("")
		Ω(err).ShouldNot(HaveOccurred())
		Ω(site).Should(BeNil())
	})

	It("round-trips sites and the current selection", func() {
		path := filepath.Join(dir, "mcb.yml")
		cfg, err := ReadConfig(path)
		Ω(err).ShouldNot(HaveOccurred())

		cfg.Add("local", Site{URL: "http://localhost:8080", Board: "b"})
		cfg.Current = "local"
		Ω(cfg.Write()).Should(Succeed())

		cfg, err = ReadConfig(path)
		Ω(err).ShouldNot(HaveOccurred())
		site, err := cfg.Site("")
		Ω(err).ShouldNot(HaveOccurred())
		Ω(site.URL).Should(Equal("http://localhost:8080"))
		Ω(site.Board).Should(Equal("b"))

		_, err = cfg.Site("elsewhere")
		Ω(err).Should(HaveOccurred())
	})
})

var _ = Describe("Terminal Screens", func() {
	It("prints results and notices failures", func() {
		var out bytes.Buffer
		s := &screen{Out: &out}

		s.Show()
		s.SetHTML("Result: 2 deleted")
		Ω(s.Failed()).Should(BeFalse())
		Ω(out.String()).Should(Equal("Result: 2 deleted\n"))

		s.Fail(&macaba.Failure{Status: "error", Detail: "Bad Request", Message: "no such board"})
		Ω(s.Failed()).Should(BeTrue())
		Ω(out.String()).Should(ContainSubstring("error: Bad Request"))
		Ω(out.String()).Should(ContainSubstring("no such board"))
	})

	It("does not mistake content that reads like a failure for one", func() {
		var out bytes.Buffer
		s := &screen{Out: &out}

		s.SetHTML("error<br/>Bad Request")
		Ω(s.Failed()).Should(BeFalse())
		Ω(out.String()).Should(Equal("error<br/>Bad Request\n"))
	})

	It("summarizes long markup onto one line", func() {
		Ω(summarize("short", 50)).Should(Equal("short"))
		Ω(summarize("a\nb   c", 50)).Should(Equal("a b c"))
		Ω(summarize("0123456789abcdef", 10)).Should(Equal("0123456..."))
	})
})
