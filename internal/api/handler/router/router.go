package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var (
	WithRoutes = func(routes ...Route) ConfigRouter {
		return func(router *Router) {
			router.routes = append(router.routes, routes...)
		}
	}

	// WithInstrumentation envolve cada rota com o padrão registrado (ex: /api/cron/run/:type)
	WithInstrumentation = func(instrument Instrument) ConfigRouter {
		return func(router *Router) {
			router.instrument = instrument
		}
	}

	// WithFallback define os handlers de rota inexistente e de método não permitido
	WithFallback = func(notFound, methodNotAllowed http.Handler) ConfigRouter {
		return func(router *Router) {
			router.notFound = notFound
			router.methodNotAllowed = methodNotAllowed
		}
	}
)

type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler // Lista de middlewares específicos para esta rota
}

// Instrument recebe o método e o padrão da rota junto com o handler final
type Instrument func(method, pattern string, next http.Handler) http.Handler

type Router struct {
	router           *httprouter.Router
	routes           []Route
	instrument       Instrument
	notFound         http.Handler
	methodNotAllowed http.Handler
}

type ConfigRouter func(router *Router)

// New aplica todas as configurações antes de registrar as rotas, então a ordem
// das opções não importa.
func New(configs ...ConfigRouter) Router {
	router := &Router{
		router: httprouter.New(),
	}

	for _, config := range configs {
		config(router)
	}

	if router.notFound != nil {
		router.router.NotFound = router.notFound
	}
	if router.methodNotAllowed != nil {
		router.router.MethodNotAllowed = router.methodNotAllowed
	}

	router.AddRoutes(router.routes...)

	return *router
}

func (r Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// AddRoutes adiciona rotas ao router com seus middlewares específicos
func (r Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		var handler http.Handler = route.Handler

		// Aplicar middlewares específicos da rota, do último para o primeiro
		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			middleware := route.Middlewares[i]
			handler = middleware(handler)
		}

		if r.instrument != nil {
			handler = r.instrument(route.Method, route.Path, handler)
		}

		r.router.Handler(route.Method, route.Path, handler)
	}
}
