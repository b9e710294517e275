package bus_test

import (
	"fmt"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/macaba/mcweb/core/bus"
)

var _ = Describe("Message Bus", func() {
	type thing struct {
		Board  string `json:"board"`
		Number int64  `json:"number"`
	}

	It("refuses clients once every slot is taken", func() {
		b := bus.New(1, 4)
		_, _, err := b.Register([]string{"*"})
		Ω(err).ShouldNot(HaveOccurred())

		_, _, err = b.Register([]string{"*"})
		Ω(err).Should(HaveOccurred())
	})

	It("routes events by queue", func() {
		b := bus.New(2, 4)
		bch, _, err := b.Register([]string{bus.BoardQueue("b")})
		Ω(err).ShouldNot(HaveOccurred())
		ach, _, err := b.Register([]string{bus.BoardQueue("a")})
		Ω(err).ShouldNot(HaveOccurred())

		b.Send(bus.CreatePostEvent, "post", thing{Board: "b", Number: 3}, bus.BoardQueue("b"))

		Ω(bch).Should(HaveLen(1))
		Ω(ach).Should(HaveLen(0))

		ev := <-bch
		Ω(ev.Event).Should(Equal(bus.CreatePostEvent))
		Ω(ev.Queue).Should(Equal("board:b"))
		Ω(ev.Type).Should(Equal("post"))
		Ω(ev.Data).Should(Equal(map[string]interface{}{
			"board":  "b",
			"number": float64(3),
		}))
	})

	It("delivers everything to clients listening on every queue", func() {
		b := bus.New(1, 4)
		ch, _, err := b.Register([]string{bus.Everyone})
		Ω(err).ShouldNot(HaveOccurred())

		b.Send(bus.DeletePostEvent, "post", thing{Board: "x"}, bus.BoardQueue("x"))
		b.SendError(fmt.Errorf("oops"), bus.BoardQueue("y"))
		Ω(ch).Should(HaveLen(2))

		<-ch
		ev := <-ch
		Ω(ev.Event).Should(Equal(bus.ErrorEvent))
		Ω(ev.Data).Should(Equal(map[string]interface{}{"error": "oops"}))
	})

	It("drops clients that fall too far behind", func() {
		b := bus.New(1, 1)
		ch, _, err := b.Register([]string{bus.Everyone})
		Ω(err).ShouldNot(HaveOccurred())

		b.Send(bus.CreatePostEvent, "post", nil, bus.Everyone)
		b.Send(bus.CreatePostEvent, "post", nil, bus.Everyone)

		Ω(<-ch).ShouldNot(BeZero())
		Eventually(ch).Should(BeClosed())

		m := b.DumpState()
		Ω(m.Connections.Current).Should(Equal(int64(0)))
		Ω(m.Connections.Dropped).Should(Equal(int64(1)))
		Ω(m.Events[bus.CreatePostEvent]).Should(Equal(int64(2)))
		Ω(m.Messages[bus.CreatePostEvent]).Should(Equal(int64(1)))
	})

	It("unregisters clients idempotently", func() {
		b := bus.New(1, 1)
		ch, id, err := b.Register([]string{bus.Everyone})
		Ω(err).ShouldNot(HaveOccurred())
		Ω(b.DumpState().Slots).Should(HaveLen(1))

		b.Unregister(id)
		b.Unregister(id)
		Ω(ch).Should(BeClosed())
		Ω(b.DumpState().Slots).Should(BeEmpty())

		_, _, err = b.Register([]string{bus.Everyone})
		Ω(err).ShouldNot(HaveOccurred())
	})
})
