package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/logger"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Enforcer answers (scope, action) permission questions from casbin policies.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer stores policies in the casbin_rule table through the gorm adapter.
// A nil db keeps them in memory. Built-in policies are seeded when missing.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	var enforcer *casbin.Enforcer
	if db != nil {
		adapter, err := gormadapter.NewAdapterByDB(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
		}
		enforcer, err = casbin.NewEnforcer(m, adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
		}
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, fmt.Errorf("failed to load policy: %w", err)
		}
	} else {
		enforcer, err = casbin.NewEnforcer(m)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
		}
	}

	e := &Enforcer{
		enforcer: enforcer,
		logger:   log.With("component", "permission.enforcer"),
	}
	if err := e.seed(authorization.DefaultPolicies()); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Enforcer) seed(rules [][]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, rule := range rules {
		ok, err := e.enforcer.AddPolicy(rule[0], rule[1], rule[2])
		if err != nil {
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", rule[0], rule[1], rule[2], err)
		}
		if ok {
			added++
		}
	}
	if added > 0 {
		e.logger.Infow("seeded permission policies", "added", added)
	}
	return nil
}

// Allowed reports whether scope may perform action on tickets.
func (e *Enforcer) Allowed(scope authorization.Scope, action authorization.Action) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(scope.String(), authorization.ResourceTicket, action.String())
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "scope", scope, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}
