package httpserver_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/hello-server/internal/httpserver"
)

var _ = Describe("HTTP Server", func() {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	Context("server creation", func() {
		It("creates server with valid address", func() {
			srv, err := httpserver.New("localhost:9999", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("creates server on all interfaces", func() {
			srv, err := httpserver.New("0.0.0.0:3000", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Addr()).To(Equal("0.0.0.0:3000"))
		})

		It("handles port-only address", func() {
			srv, err := httpserver.New(":9999", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv).NotTo(BeNil())
		})

		It("rejects invalid address", func() {
			srv, err := httpserver.New("invalid:host:port", noop)
			Expect(err).To(HaveOccurred())
			Expect(srv).To(BeNil())
		})
	})

	Context("server lifecycle", func() {
		var testServer *httpserver.Server

		AfterEach(func() {
			if testServer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = testServer.Shutdown(ctx)
				testServer = nil
			}
		})

		It("refuses to serve before listening", func() {
			srv, err := httpserver.New("127.0.0.1:0", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Serve()).To(MatchError(httpserver.ErrNotListening))
		})

		It("binds, reports the address and handles requests", func() {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("test"))
			})
			var err error
			testServer, err = httpserver.New("127.0.0.1:0", handler)
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())
			Expect(testServer.Addr()).NotTo(Equal("127.0.0.1:0"))

			go func() {
				defer GinkgoRecover()
				Expect(testServer.Serve()).To(Succeed())
			}()

			resp, err := http.Get("http://" + testServer.Addr())
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(Equal("test"))
		})

		It("fails to bind a port that is already in use", func() {
			occupied, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			defer occupied.Close()

			srv, err := httpserver.New(occupied.Addr().String(), noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Listen()).To(HaveOccurred())
			Expect(srv.Start()).To(HaveOccurred())
		})

		It("shuts down gracefully", func() {
			var err error
			testServer, err = httpserver.New("127.0.0.1:0", noop)
			Expect(err).NotTo(HaveOccurred())
			Expect(testServer.Listen()).To(Succeed())

			done := make(chan error, 1)
			go func() {
				done <- testServer.Serve()
			}()
			time.Sleep(50 * time.Millisecond)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			Expect(testServer.Shutdown(ctx)).To(Succeed())
			Eventually(done).Should(Receive(BeNil()))
		})
	})
})
