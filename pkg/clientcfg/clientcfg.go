// Package clientcfg resolves the API base URL a client uses to reach the
// service. A value injected at runtime beats the one baked in at build time:
//
//	go build -ldflags "-X github.com/shashiranjanraj/products/pkg/clientcfg.BuildAPIURL=https://api.example.com"
package clientcfg

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Key is the name the URL is published under, at build time and at runtime.
const Key = "VITE_API_URL"

// BuildAPIURL is set at build time. Empty when the build did not set it.
var BuildAPIURL string

// Lookup reads a runtime-injected value. config.Lookup and os.LookupEnv both fit.
type Lookup func(key string) (string, bool)

// APIURL returns the runtime value when runtime yields a non-empty one,
// otherwise BuildAPIURL. The result may be empty. Nothing is cached.
func APIURL(runtime Lookup) string {
	if runtime != nil {
		if v, ok := runtime(Key); ok && v != "" {
			return v
		}
	}
	return BuildAPIURL
}

// Script renders the runtime-injection document loaded by the browser
// before the frontend bundle:
//
//	window._env_ = {"VITE_API_URL":"https://api.example.com"};
func Script(values map[string]string) []byte {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString("window._env_ = {")
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(k)
		value, _ := json.Marshal(values[k])
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString("};\n")
	return buf.Bytes()
}
