package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "SecurePass1234", false},
		{"Exactly Min Length", "Abcdefghij12", false},
		{"Too Short", "Small1", true},
		{"Too Long", "A" + strings.Repeat("b", 127) + "1", true},
		{"No Upper", "securepass12", true},
		{"No Lower", "SECUREPASS12", true},
		{"No Digit", "SecurePassword", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "book_worm42", false},
		{"Valid Mixed Case", "BookWorm", false},
		{"Too Short", "bw", true},
		{"Too Long", strings.Repeat("b", 31), true},
		{"Illegal Chars", "user@books", true},
		{"Starts Dash", "-reader", true},
		{"Ends Underscore", "reader_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "reader@example.com", false},
		{"Missing At", "readerexample.com", true},
		{"Missing TLD", "reader@example", true},
		{"Too Long", strings.Repeat("a", 250) + "@e.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
