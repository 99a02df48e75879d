package app

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Command
	}{
		{"serveを指定", []string{"serve"}, CommandServe},
		{"migrateを指定", []string{"migrate"}, CommandMigrate},
		{"healthcheckを指定", []string{"healthcheck"}, CommandHealthcheck},
		{"引数なしはserve", []string{}, CommandServe},
		{"nilもserve", nil, CommandServe},
		{"未知のコマンドはserve", []string{"unknown"}, CommandServe},
		{"追加の引数は無視される", []string{"migrate", "extra"}, CommandMigrate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.args)
			if got != tt.want {
				t.Errorf("ParseCommand(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}
