package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/hello-server/internal/router"
)

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}
}

var _ = Describe("Router", func() {
	var (
		routes   []router.Route
		fallback http.HandlerFunc
	)

	BeforeEach(func() {
		routes = []router.Route{
			{Method: http.MethodGet, Path: "/", Name: "root", Handler: respond("root")},
			{Method: http.MethodGet, Path: "/hello", Name: "hello", Handler: respond("hello")},
		}
		fallback = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, "fallback")
		}
	})

	Describe("New", func() {
		It("should build a table", func() {
			table, err := router.New(routes, fallback)
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Routes()).To(HaveLen(2))
		})

		It("should reject duplicate routes", func() {
			routes = append(routes, router.Route{Method: http.MethodGet, Path: "/hello", Name: "again", Handler: respond("x")})
			_, err := router.New(routes, fallback)
			Expect(err).To(MatchError(router.ErrDuplicateRoute))
		})

		It("should reject a nil fallback", func() {
			_, err := router.New(routes, nil)
			Expect(err).To(MatchError(router.ErrNilHandler))
		})

		It("should reject a nil route handler", func() {
			routes[0].Handler = nil
			_, err := router.New(routes, fallback)
			Expect(err).To(MatchError(router.ErrNilHandler))
		})

		DescribeTable("invalid routes",
			func(route router.Route) {
				route.Handler = respond("x")
				_, err := router.New([]router.Route{route}, fallback)
				Expect(err).To(HaveOccurred())
			},
			Entry("empty path", router.Route{Method: http.MethodGet, Name: "n"}),
			Entry("relative path", router.Route{Method: http.MethodGet, Path: "hello", Name: "n"}),
			Entry("path parameter", router.Route{Method: http.MethodGet, Path: "/users/{id}", Name: "n"}),
			Entry("wildcard", router.Route{Method: http.MethodGet, Path: "/static/*", Name: "n"}),
			Entry("unknown method", router.Route{Method: "FETCH", Path: "/", Name: "n"}),
			Entry("missing name", router.Route{Method: http.MethodGet, Path: "/"}),
		)

		It("should not be affected by later changes to the input slice", func() {
			table, err := router.New(routes, fallback)
			Expect(err).NotTo(HaveOccurred())

			routes[1].Path = "/changed"
			Expect(table.Routes()[1].Path).To(Equal("/hello"))
		})
	})

	Describe("dispatch", func() {
		var table *router.Table

		BeforeEach(func() {
			var err error
			table, err = router.New(routes, fallback)
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("requests",
			func(method, path string, status int, body string) {
				w := httptest.NewRecorder()
				table.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
				Expect(w.Code).To(Equal(status))
				Expect(w.Body.String()).To(Equal(body))
			},
			Entry("root", http.MethodGet, "/", http.StatusOK, "root"),
			Entry("hello", http.MethodGet, "/hello", http.StatusOK, "hello"),
			Entry("hello with query", http.MethodGet, "/hello?x=1", http.StatusOK, "hello"),
			Entry("unknown path", http.MethodGet, "/nonexistent", http.StatusNotFound, "fallback"),
			Entry("trailing slash", http.MethodGet, "/hello/", http.StatusNotFound, "fallback"),
			Entry("nested path", http.MethodGet, "/hello/world", http.StatusNotFound, "fallback"),
			Entry("wrong method on root", http.MethodPost, "/", http.StatusNotFound, "fallback"),
			Entry("wrong method on hello", http.MethodDelete, "/hello", http.StatusNotFound, "fallback"),
			Entry("head on root", http.MethodHead, "/", http.StatusNotFound, "fallback"),
		)
	})

	Describe("Lookup", func() {
		var table *router.Table

		BeforeEach(func() {
			var err error
			table, err = router.New(routes, fallback)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should find registered routes", func() {
			route, ok := table.Lookup(http.MethodGet, "/hello")
			Expect(ok).To(BeTrue())
			Expect(route.Name).To(Equal("hello"))
		})

		It("should miss unregistered paths", func() {
			_, ok := table.Lookup(http.MethodGet, "/missing")
			Expect(ok).To(BeFalse())
		})

		It("should miss a known path with another method", func() {
			_, ok := table.Lookup(http.MethodPost, "/")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("RouteName", func() {
		It("should name the route that served the request", func() {
			var name string
			capture := func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r)
					name = router.RouteName(r, routes)
				})
			}
			table, err := router.New(routes, fallback, capture)
			Expect(err).NotTo(HaveOccurred())

			table.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", nil))
			Expect(name).To(Equal("hello"))

			table.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
			Expect(name).To(Equal(router.FallbackName))
		})

		It("should fall back outside a routed request", func() {
			Expect(router.RouteName(httptest.NewRequest(http.MethodGet, "/", nil), routes)).To(Equal(router.FallbackName))
		})
	})
})
