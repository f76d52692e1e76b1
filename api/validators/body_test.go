package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Title     *string `json:"title" validate:"omitempty,max=511,ambassador_name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,ambassador_phone"`
	Instagram *string `json:"instagram" validate:"omitempty,instagram_url"`
	Twitter   *string `json:"twitter" validate:"omitempty,twitter_url"`
	Tiktok    *string `json:"tiktok" validate:"omitempty,tiktok_url"`
	Facebook  *string `json:"facebook" validate:"omitempty,facebook_url"`
	Youtube   *string `json:"youtube" validate:"omitempty,youtube_url"`
}

func ptr(s string) *string { return &s }

func TestDecodeJSONBodyIgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Ada","shopDomain":"evil","id":9}`))
	var dest profile
	require.NoError(t, DecodeJSONBody(req, &dest))
	require.NotNil(t, dest.Title)
	assert.Equal(t, "Ada", *dest.Title)
	assert.Nil(t, dest.Email)
}

func TestDecodeJSONBodyEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var dest profile
	require.NoError(t, DecodeJSONBody(req, &dest))
	assert.Nil(t, dest.Title)
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	var dest profile
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestValidateStructAcceptsFormValues(t *testing.T) {
	in := profile{
		Title:     ptr("Zoë O'Neil-Smith"),
		Email:     ptr("zoe@example.com"),
		Phone:     ptr("(555) 123-4567"),
		Instagram: ptr("https://www.instagram.com/zoe_plush"),
		Twitter:   ptr("https://twitter.com/zoe"),
		Tiktok:    ptr("https://www.tiktok.com/@zoe"),
		Facebook:  ptr("https://m.facebook.com/zoe.plush"),
		Youtube:   ptr("https://youtu.be/abc123"),
	}
	require.NoError(t, ValidateStruct(in))
}

func TestValidateStructSkipsNilFields(t *testing.T) {
	require.NoError(t, ValidateStruct(profile{}))
}

func TestValidateStructReportsFieldDetails(t *testing.T) {
	in := profile{
		Title:     ptr("R2-D2"),
		Email:     ptr("not-an-email"),
		Phone:     ptr("12"),
		Instagram: ptr("https://example.com/zoe"),
		Youtube:   ptr("https://vimeo.com/zoe"),
	}
	err := ValidateStruct(in)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok, "details should be a field map, got %T", typed.Details())
	assert.Equal(t, "must contain only letters, spaces, apostrophes and hyphens", details["title"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be a valid phone number", details["phone"])
	assert.Equal(t, "must be a valid profile link", details["instagram"])
	assert.Equal(t, "must be a valid profile link", details["youtube"])
	assert.NotContains(t, details, "twitter")
}

func TestParseID(t *testing.T) {
	cases := map[string]struct {
		want uint
		ok   bool
	}{
		"1":    {1, true},
		" 42 ": {42, true},
		"0":    {0, false},
		"-3":   {0, false},
		"abc":  {0, false},
		"1.5":  {0, false},
		"":     {0, false},
	}
	for raw, tc := range cases {
		got, ok := ParseID(raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseID(%q) = %d, %v; want %d, %v", raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abc  ", 0))
	assert.Equal(t, "ab", SanitizeString(" abc", 2))

	// é is two bytes; a cap landing inside it drops the whole rune
	assert.Equal(t, "h", SanitizeString("héllo", 2))
	assert.Equal(t, "hé", SanitizeString("héllo", 3))

	long := strings.Repeat("日本", 50)
	for maxLen := 1; maxLen < 20; maxLen++ {
		got := SanitizeString(long, maxLen)
		if !utf8.ValidString(got) || len(got) > maxLen {
			t.Fatalf("SanitizeString(long, %d) = %q; want valid UTF-8 of at most %d bytes", maxLen, got, maxLen)
		}
	}
}
