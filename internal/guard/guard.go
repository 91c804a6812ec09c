// Package guard решает, может ли текущая Identity открыть запрошенный
// маршрут. Guard — чистая функция от (готовность сессии, Identity,
// требование): он не ходит в сеть, не меняет Identity и каждый отказ
// выражает перенаправлением, а не ошибкой.
package guard

import (
	"sync"

	"github.com/mmeshcher/artmarket-system/internal/model"
)

// DecisionKind перечисляет исходы проверки доступа.
type DecisionKind int

const (
	// DecisionPending означает, что Identity ещё восстанавливается и
	// решение не принято.
	DecisionPending DecisionKind = iota
	// DecisionAllow разрешает открыть запрошенный маршрут.
	DecisionAllow
	// DecisionRedirect перенаправляет на другой маршрут.
	DecisionRedirect
)

// Decision описывает исход проверки доступа к маршруту.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Intent описывает отложенный переход: куда пользователь шёл до того, как
// его увело на страницу входа. Потребляется ровно один раз после входа.
type Intent struct {
	TargetPath string
}

// Requirement описывает требование маршрута к Identity.
type Requirement struct {
	// Role — требуемая роль; nil означает «любой аутентифицированный».
	Role *model.Role
	// RedirectTo — точка входа для неаутентифицированных попыток.
	RedirectTo string
}

// RequireAuth возвращает требование «любая аутентифицированная Identity»
// с перенаправлением на общий вход.
func RequireAuth() Requirement {
	return Requirement{RedirectTo: "/login"}
}

// RequireRole возвращает требование конкретной роли с собственной точкой
// входа (административная консоль использует /admin/login).
func RequireRole(role model.Role, redirectTo string) Requirement {
	return Requirement{Role: &role, RedirectTo: redirectTo}
}

// Session описывает читаемое guard'ом состояние сессии.
type Session interface {
	Ready() bool
	Identity() *model.Identity
}

// Guard проверяет доступ к маршрутам по текущей Identity.
type Guard struct {
	session Session
	intents *IntentStore
}

// New создаёт guard поверх переданного состояния сессии.
func New(session Session) *Guard {
	return &Guard{
		session: session,
		intents: &IntentStore{},
	}
}

// Intents возвращает хранилище отложенных переходов guard'а.
func (g *Guard) Intents() *IntentStore {
	return g.intents
}

// Check принимает решение о доступе к маршруту path по требованию req.
// Неаутентифицированная попытка запоминает path для возобновления после
// входа; несоответствие роли уводит на главную без сохранения намерения.
func (g *Guard) Check(path string, req Requirement) Decision {
	if !g.session.Ready() {
		return Decision{Kind: DecisionPending}
	}

	ident := g.session.Identity()
	if ident == nil {
		target := req.RedirectTo
		if target == "" {
			target = "/login"
		}
		g.intents.Remember(Intent{TargetPath: path})
		return Decision{Kind: DecisionRedirect, Target: target}
	}

	if req.Role != nil && !ident.Role.Satisfies(*req.Role) {
		return Decision{Kind: DecisionRedirect, Target: "/"}
	}

	return Decision{Kind: DecisionAllow}
}

// IntentStore хранит не более одного отложенного перехода.
type IntentStore struct {
	mu     sync.Mutex
	intent *Intent
}

// Remember сохраняет намерение, замещая предыдущее.
func (s *IntentStore) Remember(intent Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent = &intent
}

// Consume возвращает сохранённое намерение и забывает его. Второй вызов
// подряд возвращает false.
func (s *IntentStore) Consume() (Intent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.intent == nil {
		return Intent{}, false
	}
	intent := *s.intent
	s.intent = nil
	return intent, true
}
