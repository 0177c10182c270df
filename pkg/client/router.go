package client

// Route describes a navigable destination and who may reach it. An
// empty AllowedKinds means the route is public. An empty AllowedRoles
// on a staff route admits any staff role.
type Route struct {
	Name         string
	Path         string
	AllowedKinds []Kind
	AllowedRoles []string
}

func (r Route) public() bool {
	return len(r.AllowedKinds) == 0
}

func (r Route) admitsKind(k Kind) bool {
	for _, allowed := range r.AllowedKinds {
		if allowed == k {
			return true
		}
	}
	return false
}

func (r Route) admitsRole(role string) bool {
	if len(r.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Router resolves navigation targets against the current session. Each
// Resolve call reads the session fresh, so a teardown between two
// navigations is picked up immediately.
type Router struct {
	session     *Session
	routes      map[string]Route
	loginRoute  Route
	staffHome   Route
	studentHome Route
}

// RouterConfig wires a Router. Login is the destination for
// unauthenticated navigation; StaffHome and StudentHome are the
// default landings when a principal is authenticated but not admitted
// to the requested route.
type RouterConfig struct {
	Login       Route
	StaffHome   Route
	StudentHome Route
	Routes      []Route
}

// NewRouter constructs a Router over the given session.
func NewRouter(session *Session, cfg RouterConfig) *Router {
	routes := make(map[string]Route, len(cfg.Routes)+3)
	for _, r := range cfg.Routes {
		routes[r.Name] = r
	}
	routes[cfg.Login.Name] = cfg.Login
	routes[cfg.StaffHome.Name] = cfg.StaffHome
	routes[cfg.StudentHome.Name] = cfg.StudentHome
	return &Router{
		session:     session,
		routes:      routes,
		loginRoute:  cfg.Login,
		staffHome:   cfg.StaffHome,
		studentHome: cfg.StudentHome,
	}
}

// Resolve returns the route to actually render for a requested route
// name. Unknown names resolve like unauthorized ones: to the login
// route when no session exists, else to the session's default landing.
func (r *Router) Resolve(name string) Route {
	route, known := r.routes[name]
	if known && route.public() {
		return route
	}

	snap := r.session.Snapshot()
	if snap == nil || r.session.State() == StateUnauthenticated {
		return r.loginRoute
	}

	if known && route.admitsKind(snap.Kind) {
		if snap.Kind != KindStaff || route.admitsRole(snap.Role()) {
			return route
		}
	}
	return r.home(snap.Kind)
}

// Home returns the default landing for the current session, or the
// login route when unauthenticated.
func (r *Router) Home() Route {
	snap := r.session.Snapshot()
	if snap == nil {
		return r.loginRoute
	}
	return r.home(snap.Kind)
}

func (r *Router) home(k Kind) Route {
	if k == KindStudent {
		return r.studentHome
	}
	return r.staffHome
}
