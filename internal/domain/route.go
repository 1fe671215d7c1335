package domain

// Route identifies which renderer a navigation needs.
type Route int

const (
	RouteOther Route = iota
	RouteHome
	RouteStats
)

// Route tokens, matched exactly against the request path.
const (
	HomeRouteToken  = "/"
	StatsRouteToken = "/_stats"
)

// ParseRoute maps a path to its Route. Anything but an exact token match is RouteOther.
func ParseRoute(path string) Route {
	switch path {
	case HomeRouteToken:
		return RouteHome
	case StatsRouteToken:
		return RouteStats
	default:
		return RouteOther
	}
}

func (r Route) String() string {
	switch r {
	case RouteHome:
		return "home"
	case RouteStats:
		return "stats"
	default:
		return "other"
	}
}
