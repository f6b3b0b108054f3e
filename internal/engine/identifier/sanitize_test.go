package identifier

import (
	"regexp"
	"testing"
)

var validIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func TestSanitize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		c    Case
		want Identifier
	}{
		{name: "Plain", raw: "logo", c: Member, want: "logo"},
		{name: "Dashes", raw: "app-icon-large", c: Member, want: "appIconLarge"},
		{name: "Spaces", raw: "Welcome Screen", c: Member, want: "welcomeScreen"},
		{name: "TypeCase", raw: "welcome screen", c: Type, want: "WelcomeScreen"},
		{name: "Dots", raw: "data.json", c: Member, want: "dataJson"},
		{name: "Underscore", raw: "snake_case_name", c: Member, want: "snake_case_name"},
		{name: "LeadingDigit", raw: "1st-place", c: Member, want: "_1stPlace"},
		{name: "Empty", raw: "", c: Member, want: "unnamed"},
		{name: "OnlySymbols", raw: "@@@", c: Member, want: "unnamed"},
		{name: "Reserved", raw: "default", c: Member, want: "default_"},
		{name: "ReservedAfterCase", raw: "Class", c: Member, want: "class_"},
		{name: "Unicode", raw: "café-crème", c: Member, want: "cafeCreme"},
		{name: "ReservedType", raw: "type", c: Type, want: "Type_"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Sanitize(tc.raw, tc.c); got != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestSanitizeIsTotalAndValid(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", " ", "0", "123abc", "for", "in", "self", "nil", "Ünïcödé", "日本語",
		"emoji 🎉", "a/b/c", "---", "Icon", "icon", "x@2x", "\t\n", "__", "R",
	}
	for _, raw := range inputs {
		for _, c := range []Case{Member, Type} {
			got := Sanitize(raw, c)
			if !validIdent.MatchString(string(got)) {
				t.Errorf("Sanitize(%q) = %q is not a valid identifier", raw, got)
			}
			if IsReserved(string(got)) {
				t.Errorf("Sanitize(%q) = %q is reserved", raw, got)
			}
			if again := Sanitize(raw, c); again != got {
				t.Errorf("Sanitize(%q) not deterministic: %q vs %q", raw, got, again)
			}
		}
	}
}

func TestSanitizeCaseOnlyDifferencesCollide(t *testing.T) {
	if Sanitize("Icon", Member) != Sanitize("icon", Member) {
		t.Fatal("expected names differing only by first-letter case to collide")
	}
}

func TestPath(t *testing.T) {
	got := Path("Icons/tab-bar/home")
	if Join(got, ".") != "icons.tabBar.home" {
		t.Fatalf("unexpected dotted path %q", Join(got, "."))
	}
	if Join(got, "_") != "icons_tabBar_home" {
		t.Fatalf("unexpected underscored path %q", Join(got, "_"))
	}
	if len(Path("")) != 1 {
		t.Fatal("expected empty path to yield a single placeholder segment")
	}
}
