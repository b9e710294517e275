package tui_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/macaba/mcweb/tui"
)

var _ = Describe("Forms", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	form := func(input string) *tui.Form {
		return tui.NewFormFrom(strings.NewReader(input), out)
	}

	It("prompts for every field in order", func() {
		f := form("1 2, >>3\nyes\n")
		f.NewField("Posts", "posts", nil, "", tui.FieldIsPostList)
		f.NewField("Only the attachments?", "onlyfile", "n", "", tui.FieldIsBoolean)

		Ω(f.Show()).Should(Succeed())
		Ω(f.GetField("posts").Value).Should(Equal([]string{"1", "2", "3"}))
		Ω(f.GetField("onlyfile").Value).Should(Equal(true))
		Ω(out.String()).Should(ContainSubstring("Only the attachments? (n): "))
	})

	It("falls back to default values", func() {
		f := form("\n")
		f.NewField("Only the attachments?", "onlyfile", "no", "", tui.FieldIsBoolean)

		Ω(f.Show()).Should(Succeed())
		Ω(f.GetField("onlyfile").Value).Should(Equal(false))
	})

	It("re-prompts until the answer is acceptable", func() {
		f := form("\nseven\n7\n")
		f.NewField("Posts", "posts", nil, "", tui.FieldIsPostList)

		Ω(f.Show()).Should(Succeed())
		Ω(f.GetField("posts").Value).Should(Equal([]string{"7"}))
		Ω(strings.Count(out.String(), "!! ")).Should(Equal(2))
	})

	It("accepts a final answer without a trailing newline", func() {
		f := form("hello")
		f.NewField("Name", "name", nil, "", tui.FieldIsRequired)

		Ω(f.Show()).Should(Succeed())
		Ω(f.GetField("name").Value).Should(Equal("hello"))
	})

	It("fails when input runs out", func() {
		f := form("")
		f.NewField("Name", "name", nil, "", tui.FieldIsRequired)
		Ω(f.Show()).ShouldNot(Succeed())
	})

	It("confirms by summarizing the answers", func() {
		f := form("42\nsekrit\nmaybe\ny\n")
		f.NewField("Posts", "posts", nil, "", tui.FieldIsPostList)
		f.NewField("Password", "password", nil, "", tui.FieldIsOptional)
		Ω(f.Show()).Should(Succeed())
		f.GetField("password").ShowAs = "*******"

		Ω(f.Confirm("Really delete?")).Should(BeTrue())
		Ω(out.String()).Should(ContainSubstring("Posts:    [42]"))
		Ω(out.String()).Should(ContainSubstring("Password: *******"))
		Ω(out.String()).ShouldNot(ContainSubstring("sekrit\n"))
	})

	It("treats a missing confirmation as a no", func() {
		f := form("")
		Ω(f.Confirm("Really?")).Should(BeFalse())
	})
})

var _ = Describe("Field Processors", func() {
	It("understands booleans", func() {
		for _, s := range []string{"y", "Yes", "TRUE"} {
			v, err := tui.FieldIsBoolean("x", s)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(v).Should(Equal(true))
		}
		for _, s := range []string{"n", "NO", "false"} {
			v, err := tui.FieldIsBoolean("x", s)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(v).Should(Equal(false))
		}
		_, err := tui.FieldIsBoolean("x", "sure")
		Ω(err).Should(HaveOccurred())
	})

	It("requires values for required fields", func() {
		_, err := tui.FieldIsRequired("x", "")
		Ω(err).Should(HaveOccurred())

		v, err := tui.FieldIsOptional("x", "")
		Ω(err).ShouldNot(HaveOccurred())
		Ω(v).Should(Equal(""))
	})

	It("rejects things that are not post numbers", func() {
		for _, s := range []string{"", "0", "-1", "p1", "1,,x"} {
			_, err := tui.FieldIsPostList("posts", s)
			Ω(err).Should(HaveOccurred(), "'%s' should have been rejected", s)
		}
	})
})

var _ = Describe("Reports", func() {
	It("aligns keys and continues multi-line values", func() {
		r := tui.NewReport()
		r.Add("Board", "/b/")
		r.Add("Markup", "line one\nline two")
		r.Break()
		r.Add("Number", "12")

		var out bytes.Buffer
		r.Output(&out)
		Ω(out.String()).Should(Equal(
			"Board:  /b/\n" +
				"Markup: line one\n" +
				"        line two\n" +
				"        \n" +
				"Number: 12\n"))
	})
})
