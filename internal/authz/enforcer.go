// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package authz

import (
	"cmp"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"

	"github.com/tomtom215/nutrimaster/internal/cache"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Actions used in policies.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// EnforcerConfig selects the model and policy and tunes the decision cache.
// Empty paths, or paths to missing files, fall back to the embedded model
// and policy.
type EnforcerConfig struct {
	ModelPath  string
	PolicyPath string

	// DefaultRole is checked for subjects that carry no roles.
	DefaultRole string

	CacheEnabled bool
	CacheTTL     time.Duration
}

func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		DefaultRole:  "viewer",
		CacheEnabled: true,
		CacheTTL:     5 * time.Minute,
	}
}

// Enforcer answers role/route/action questions from the casbin policy,
// memoizing decisions in a TTL cache.
type Enforcer struct {
	defaultRole string
	enforcer    *casbin.SyncedEnforcer
	decisions   *cache.Cache
}

func NewEnforcer(config *EnforcerConfig) (*Enforcer, error) {
	if config == nil {
		config = DefaultEnforcerConfig()
	}

	m, err := loadModel(config.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, policyAdapter(config.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{defaultRole: config.DefaultRole, enforcer: enforcer}
	if config.CacheEnabled {
		e.decisions = cache.New("authz", cmp.Or(config.CacheTTL, 5*time.Minute))
	}
	if rules, err := enforcer.GetPolicy(); err == nil {
		AuthzPolicyRulesTotal.Set(float64(len(rules)))
	}
	return e, nil
}

func loadModel(path string) (model.Model, error) {
	if usable(path) {
		return model.NewModelFromFile(path)
	}
	return model.NewModelFromString(embeddedModel)
}

func policyAdapter(path string) persist.Adapter {
	if usable(path) {
		return fileadapter.NewAdapter(path)
	}
	return stringadapter.NewAdapter(embeddedPolicy)
}

func usable(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Enforce reports whether subject may perform action on object, and whether
// the answer came from the cache.
func (e *Enforcer) Enforce(subject, object, action string) (allowed, cacheHit bool, err error) {
	key := subject + "|" + action + "|" + object
	if e.decisions != nil {
		if v, ok := e.decisions.Get(key); ok {
			AuthzCacheHitsTotal.Inc()
			return v.(bool), true, nil
		}
		AuthzCacheMissesTotal.Inc()
	}

	allowed, err = e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, false, fmt.Errorf("enforcement failed: %w", err)
	}
	if e.decisions != nil {
		e.decisions.Set(key, allowed)
	}
	return allowed, false, nil
}

// EnforceWithRoles allows the request if any role does. cacheHit describes
// the last role checked.
func (e *Enforcer) EnforceWithRoles(roles []string, object, action string) (allowed, cacheHit bool, err error) {
	if len(roles) == 0 && e.defaultRole != "" {
		roles = []string{e.defaultRole}
	}
	for _, role := range roles {
		if allowed, cacheHit, err = e.Enforce(role, object, action); err != nil || allowed {
			return allowed, cacheHit, err
		}
	}
	return false, cacheHit, nil
}

// HasRoleLink reports whether role inherits from parent.
func (e *Enforcer) HasRoleLink(role, parent string) (bool, error) {
	return e.enforcer.HasRoleForUser(role, parent)
}

func (e *Enforcer) Close() {
	if e.decisions != nil {
		e.decisions.Close()
	}
}
