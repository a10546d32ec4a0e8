package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/ragchat/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// Get returns the pooled client shared by the embedding and chat backends so
// repeated calls to the same endpoint reuse connections.
func Get() *http.Client {
	once.Do(func() {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		}
	})
	return client
}
