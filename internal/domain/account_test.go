package domain

import "testing"

func TestClassifyAccount(t *testing.T) {
	tests := []struct {
		account string
		want    AccountField
	}{
		{"13800000000", AccountMobile},
		{"15912345678", AccountMobile},
		{"23800000000", AccountUsername}, // 11 digits but not starting with 1
		{"1380000000", AccountUsername},  // 10 digits
		{"138000000000", AccountUsername},
		{"1380000000a", AccountUsername},
		{"a@b.co", AccountEmail},
		{"user.name+tag@example.com", AccountEmail},
		{"UPPER@EXAMPLE.ORG", AccountEmail},
		{"a@b", AccountUsername}, // domain has no dot
		{"@example.com", AccountUsername},
		{"a@.com", AccountUsername},
		{"alice", AccountUsername},
		{"", AccountUsername},
		{"密码", AccountUsername},
	}
	for _, tt := range tests {
		got := ClassifyAccount(tt.account)
		if got.Field != tt.want {
			t.Errorf("ClassifyAccount(%q).Field = %q, want %q", tt.account, got.Field, tt.want)
		}
		if got.Value != tt.account {
			t.Errorf("ClassifyAccount(%q).Value = %q, want the input unchanged", tt.account, got.Value)
		}
	}
}
