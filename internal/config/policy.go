package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ProvisioningPolicy controls how unknown tenant codes are handled on cash
// writes. Reloaded at runtime when the config file changes.
type ProvisioningPolicy struct {
	AutoCreateTenants bool `mapstructure:"auto_create_tenants"`
}

func DefaultProvisioningPolicy() ProvisioningPolicy {
	return ProvisioningPolicy{AutoCreateTenants: true}
}

// PolicyHolder provides lock-free access to the current provisioning policy.
type PolicyHolder struct {
	current atomic.Value // holds ProvisioningPolicy
}

// NewPolicyHolder loads cashbook.yml (optional) and watches it for changes.
func NewPolicyHolder() (*PolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("cashbook")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/cashbook")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CASHBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultProvisioningPolicy()
	v.SetDefault("provisioning.auto_create_tenants", defaults.AutoCreateTenants)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var policy ProvisioningPolicy
	if err := v.UnmarshalKey("provisioning", &policy); err != nil {
		return nil, err
	}

	holder := &PolicyHolder{}
	holder.current.Store(policy)

	if fileFound {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated ProvisioningPolicy
			if err := v.UnmarshalKey("provisioning", &updated); err != nil {
				log.Printf("[policy] reload failed: %v", err)
				return
			}
			holder.current.Store(updated)
			log.Printf("[policy] reloaded from %s", e.Name)
		})
	}

	return holder, nil
}

func (h *PolicyHolder) Get() ProvisioningPolicy {
	return h.current.Load().(ProvisioningPolicy)
}

// Set replaces the current policy. Used by tests.
func (h *PolicyHolder) Set(p ProvisioningPolicy) {
	h.current.Store(p)
}
