package fakes

// MapEnv is an in-memory scope.EnvironmentProvider for tests.
type MapEnv map[string]string

// LookupEnv reads from the map instead of the process environment.
func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
