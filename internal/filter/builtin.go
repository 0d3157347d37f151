package filter

import "regexp"

// adsPathRe matches the iframe paths ad networks serve their banners from,
// e.g. /ad20.php, /ads468x60.html or /static/ads/300x250_1217n.htm.
var adsPathRe = regexp.MustCompile(`(?:^|/)ads?(?:\d+x\d+|\d+)?(?:/(?:ads)?(?:\d+x\d+)?(?:_\w+)?)?\.(?:html?|php)$`)

var builtinNetlocs = []string{
	"127.0.0.1",
	"a.adtng.com",
	"about:blank",
	"abv.bg",
	"accounts.google.com",
	"adfox.ru",
	"cbox.ws",
	"googletagmanager.com",
	"javascript:false",
}

var builtinPaths = []Rule{
	{"expressen.se", "/_livetvpreview/"},
	{"facebook.com", "/connect"},
	{"facebook.com", "/plugins"},
	{"google.com", "/recaptcha/"},
	{"haber7.com", "/radyohome/station-widget/"},
	{"static.tvr.by", "/upload/video/atn/promo"},
	{"twitter.com", "/widgets"},
	{"vesti.ru", "/native_widget"},
	{"www.blogger.com", "/static"},
	{"youtube.com", "/["},
}

var builtinSuffixes = []string{
	".css",
	".gif",
	".ico",
	".jpeg",
	".jpg",
	".js",
	".png",
	".svg",
	".vtt",
	"/chat",
	"/chat.html",
	"/novideo.mp4",
	"/vidthumb.mp4",
}

// BuiltinNetlocs returns a copy of the default netloc blacklist.
func BuiltinNetlocs() []string {
	return append([]string(nil), builtinNetlocs...)
}

// BuiltinPaths returns a copy of the default path rules.
func BuiltinPaths() []Rule {
	return append([]Rule(nil), builtinPaths...)
}

// BuiltinSuffixes returns a copy of the default suffix blacklist.
func BuiltinSuffixes() []string {
	return append([]string(nil), builtinSuffixes...)
}
