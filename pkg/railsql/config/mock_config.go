package config

type mockConfig struct {
	data map[string]string
}

// NewMockConfig returns a Config backed by a plain map, useful in tests.
func NewMockConfig(data map[string]string) Config {
	return &mockConfig{data: data}
}

func (m *mockConfig) Get(key string) string {
	return m.data[key]
}

func (m *mockConfig) GetOrDefault(key, defaultValue string) string {
	if value, ok := m.data[key]; ok && value != "" {
		return value
	}

	return defaultValue
}
