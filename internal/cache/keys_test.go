package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "quiz",
			objectType:  "list",
			identifier:  "public",
			paramsKey:   nil,
			expectedKey: "quizdeck:quiz:list:public",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "quiz",
			objectType:  "list",
			identifier:  "public",
			paramsKey:   []string{},
			expectedKey: "quizdeck:quiz:list:public",
		},
		{
			name:        "with one paramsKey",
			serviceName: "quiz",
			objectType:  "list",
			identifier:  "category",
			paramsKey:   []string{"science"},
			expectedKey: "quizdeck:quiz:list:category:science",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "quiz",
			objectType:  "list",
			identifier:  "category",
			paramsKey:   []string{"science", "50"},
			expectedKey: "quizdeck:quiz:list:category:science_50",
		},
		{
			name:        "with paramsKey containing special characters",
			serviceName: "user",
			objectType:  "profile",
			identifier:  "id",
			paramsKey:   []string{"param-1", "param_2"},
			expectedKey: "quizdeck:user:profile:id:param-1_param_2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}
