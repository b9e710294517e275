package page_test

import (
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/macaba/mcweb/client/v1/macaba"
	"github.com/macaba/mcweb/page"
)

// failer records the failure it is handed, next to whatever content it
// was given.
type failer struct {
	*page.Region

	lock    sync.Mutex
	failure *macaba.Failure
}

func (f *failer) Fail(failure *macaba.Failure) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.failure = failure
}

func (f *failer) Failure() *macaba.Failure {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.failure
}

var _ = Describe("Page actions", func() {
	var server *ghttp.Server
	var gw *macaba.Client

	BeforeEach(func() {
		server = ghttp.NewServer()
		gw = &macaba.Client{URL: server.URL()}
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Preview", func() {
		var form *page.PreviewForm
		var popup *page.Popup
		var container, content *page.Region

		BeforeEach(func() {
			form = &page.PreviewForm{Message: page.NewTextArea("message", "**x**")}
			container = page.NewRegion("preview-popup")
			content = page.NewRegion("preview-content")
			popup = &page.Popup{Container: container, Content: content}
		})

		It("issues exactly one POST carrying the message markup", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/rest/post/preview"),
				ghttp.VerifyJSON(`{"markup":"**x**"}`),
				ghttp.RespondWithJSONEncoded(200, map[string]string{"html": "<b>x</b>"}),
			))

			Eventually(page.Preview(gw, form, popup)).Should(BeClosed())
			Ω(server.ReceivedRequests()).Should(HaveLen(1))
		})

		It("reads the message at submission time", func() {
			form.Message.SetValue("changed")
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyJSON(`{"markup":"changed"}`),
				ghttp.RespondWithJSONEncoded(200, map[string]string{"html": "changed"}),
			))

			Eventually(page.Preview(gw, form, popup)).Should(BeClosed())
		})

		It("shows the popup with the rendered HTML on success", func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(200, map[string]string{"html": "<b>x</b>"}))

			Ω(container.Visible()).Should(BeFalse())
			Eventually(page.Preview(gw, form, popup)).Should(BeClosed())
			Ω(container.Visible()).Should(BeTrue())
			Ω(content.Content()).Should(Equal("<b>x</b>"))
			Ω(content.IsHTML()).Should(BeTrue())
		})

		It("shows the failure in the same place on error", func() {
			server.AppendHandlers(ghttp.RespondWith(400, `{"error":"bad markup"}`))

			Eventually(page.Preview(gw, form, popup)).Should(BeClosed())
			Ω(container.Visible()).Should(BeTrue())
			Ω(content.Content()).Should(Equal("error<br/>Bad Request"))
		})

		It("hands failures to content that wants them whole", func() {
			server.AppendHandlers(ghttp.RespondWith(400, `{"error":"bad markup"}`))
			f := &failer{Region: content}
			popup.Content = f

			Eventually(page.Preview(gw, form, popup)).Should(BeClosed())
			Ω(f.Failure()).ShouldNot(BeNil())
			Ω(f.Failure().Message).Should(Equal("bad markup"))
			Ω(content.Content()).Should(BeEmpty())
		})

		It("leaves failure-shaped previews alone", func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(200, map[string]string{"html": "error<br/>Bad Request"}))
			f := &failer{Region: content}
			popup.Content = f

			Eventually(page.Preview(gw, form, popup)).Should(BeClosed())
			Ω(f.Failure()).Should(BeNil())
			Ω(content.Content()).Should(Equal("error<br/>Bad Request"))
		})
	})

	Describe("Delete", func() {
		var form *page.DeleteForm
		var p1, p2, p3, other *page.Checkbox
		var bar *page.Region

		BeforeEach(func() {
			p1 = page.NewCheckbox("delete", page.SelectRole, "p1")
			p2 = page.NewCheckbox("delete", page.SelectRole, "p2")
			p3 = page.NewCheckbox("delete", page.SelectRole, "p3")
			other = page.NewCheckbox("hide", "post_hide", "p9")
			form = &page.DeleteForm{
				Selections: []*page.Checkbox{p1, other, p2, p3},
				Password:   page.NewInput("pass", "hunter2"),
				FileOnly:   page.NewCheckbox("fileonly", "", ""),
			}
			bar = page.NewRegion("reportbar-msg")
		})

		It("sends the checked posts in document order", func() {
			p2.SetChecked(true)
			p1.SetChecked(true)
			other.SetChecked(true)

			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/rest/post/delete"),
				ghttp.VerifyJSON(`{"board":"b","posts":["p1","p2"],"password":"hunter2","onlyfile":false}`),
				ghttp.RespondWithJSONEncoded(200, map[string]string{"result": "2 deleted"}),
			))

			Eventually(page.Delete(gw, "b", "p3", form, bar)).Should(BeClosed())
			Ω(server.ReceivedRequests()).Should(HaveLen(1))
		})

		It("does not target the triggering post unless it is checked", func() {
			p2.SetChecked(true)

			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyJSON(`{"board":"b","posts":["p2"],"password":"hunter2","onlyfile":false}`),
				ghttp.RespondWithJSONEncoded(200, map[string]string{"result": "1 deleted"}),
			))

			Eventually(page.Delete(gw, "b", "p1", form, bar)).Should(BeClosed())
		})

		It("reads the live checked state of the file-only box", func() {
			p1.SetChecked(true)
			form.FileOnly.Toggle()

			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyJSON(`{"board":"b","posts":["p1"],"password":"hunter2","onlyfile":true}`),
				ghttp.RespondWithJSONEncoded(200, map[string]string{"result": "1 files deleted"}),
			))

			Ω(form.FileOnly.Value).Should(BeEmpty())
			Eventually(page.Delete(gw, "b", "", form, bar)).Should(BeClosed())
		})

		It("reports the server result in the status bar", func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(200, map[string]string{"result": "3 deleted"}))

			Eventually(page.Delete(gw, "b", "", form, bar)).Should(BeClosed())
			Ω(bar.Visible()).Should(BeTrue())
			Ω(bar.Content()).Should(Equal("Result: 3 deleted"))
		})

		It("reports failures in the status bar", func() {
			server.AppendHandlers(ghttp.RespondWith(500, `{"error":"database is on fire"}`))

			Eventually(page.Delete(gw, "b", "", form, bar)).Should(BeClosed())
			Ω(bar.Visible()).Should(BeTrue())
			Ω(bar.Content()).Should(Equal("error<br/>Internal Server Error"))
		})
	})

	Describe("Preview and Delete together", func() {
		It("share one fresh gateway", func() {
			server.RouteToHandler("POST", "/rest/post/preview",
				ghttp.RespondWithJSONEncoded(200, map[string]string{"html": "<b>x</b>"}))
			server.RouteToHandler("POST", "/rest/post/delete",
				ghttp.RespondWithJSONEncoded(200, map[string]string{"result": "1 deleted"}))

			content := page.NewRegion("preview-content")
			popup := &page.Popup{Container: page.NewRegion("preview-popup"), Content: content}
			box := page.NewCheckbox("delete", page.SelectRole, "1")
			box.SetChecked(true)
			bar := page.NewRegion("reportbar-msg")

			previewed := page.Preview(gw, &page.PreviewForm{Message: page.NewTextArea("message", "**x**")}, popup)
			deleted := page.Delete(gw, "b", "1", &page.DeleteForm{Selections: []*page.Checkbox{box}}, bar)

			Eventually(previewed).Should(BeClosed())
			Eventually(deleted).Should(BeClosed())
			Ω(content.Content()).Should(Equal("<b>x</b>"))
			Ω(bar.Content()).Should(Equal("Result: 1 deleted"))
		})
	})
})
