package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	tagName      = "ambassador_name"
	tagPhone     = "ambassador_phone"
	tagInstagram = "instagram_url"
	tagTwitter   = "twitter_url"
	tagTikTok    = "tiktok_url"
	tagFacebook  = "facebook_url"
	tagYouTube   = "youtube_url"
)

// Rules mirror the admin form. Social patterns are substring matches.
var rules = map[string]*regexp.Regexp{
	tagName:      regexp.MustCompile(`^[\p{L}'][ \p{L}'-]*[\p{L}]$`),
	tagPhone:     regexp.MustCompile(`(?im)^[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}$`),
	tagInstagram: regexp.MustCompile(`(?:www\.)?(?:instagram\.com|instagr\.am)/([A-Za-z0-9_.\-]+)`),
	tagTwitter:   regexp.MustCompile(`(?:https?://)?(?:[A-Za-z]+\.)?twitter\.com/`),
	tagTikTok:    regexp.MustCompile(`(?:https?://)?(?:[A-Za-z]+\.)?tiktok\.com/`),
	tagFacebook:  regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:mbasic\.facebook|m\.facebook|facebook|fb)\.(?:com|me)/`),
	tagYouTube:   regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu(?:\.be|be\..{2,5})/`),
}

func registerAmbassadorRules(v *validator.Validate) {
	for tag, re := range rules {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
}
