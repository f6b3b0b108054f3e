package swift

import (
	"strings"
	"testing"

	"resgen/internal/engine/aggregate"
	"resgen/internal/engine/generator"
	"resgen/internal/engine/resource"
	"resgen/internal/engine/symbols"
	"resgen/internal/engine/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureResources() *resource.Resources {
	return &resource.Resources{
		Images: []resource.Image{
			{Name: "logo", Path: "logo.png", Ext: "png", Scale: 1},
			{Name: "logo10", Path: "logo10.png", Ext: "png", Scale: 1},
			{Name: "logo2", Path: "logo2.png", Ext: "png", Scale: 1},
		},
		AssetFolders: []resource.AssetFolder{
			{Name: "Assets", Path: "Assets.xcassets", Images: []string{"Icons/home"}, Colors: []string{"brand"}},
		},
		Fonts: []resource.Font{{Name: "Inter-Bold", Path: "Inter-Bold.ttf"}},
		Files: []resource.File{{Filename: "data.json", Name: "data", Ext: "json", Path: "data.json"}},
		Strings: []resource.LocalizableStrings{{
			Table:  "Localizable",
			Locale: "en",
			Path:   "en.lproj/Localizable.strings",
			Entries: []resource.StringEntry{
				{Key: "greeting", Value: "Hello %@", Placeholders: []resource.Placeholder{{Position: 1, Kind: resource.ArgObject}}},
				{Key: "title", Value: "Title"},
			},
		}},
		Storyboards: []resource.Storyboard{{
			Name:                  "Main",
			Path:                  "Base.lproj/Main.storyboard",
			InitialViewController: "vc1",
			ViewControllers: []resource.ViewController{
				{ID: "vc1", StoryboardIdentifier: "home", Type: symbols.Type{Module: "App", Name: "HomeViewController"}},
			},
			UsedImages: []string{"logo"},
		}},
		Nibs: []resource.Nib{{
			Name:       "Cell",
			Path:       "Cell.xib",
			RootViews:  []symbols.Type{symbols.UITableViewCell},
			Reusables:  []resource.Reusable{{Identifier: "cell", Type: symbols.UITableViewCell}},
			UsedImages: []string{"logo2"},
		}},
	}
}

func fixtureTree(t *testing.T) validate.Tree {
	t.Helper()
	res := fixtureResources()
	root, err := aggregate.Run(generator.Default(generator.Options{DevelopmentRegion: "en"}), res, symbols.AccessPublic, "R")
	require.NoError(t, err)
	tree, err := validate.Validate(root)
	require.NoError(t, err)
	return tree
}

func TestPrinterRendersBothStructs(t *testing.T) {
	t.Parallel()
	out, err := NewPrinter(fixtureTree(t), Options{
		ProductModule: "App",
		Imports:       []string{"SwiftUI"},
		Access:        symbols.AccessPublic,
	}).Generate()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "//\n// This is a generated file, do not edit!\n"))
	assert.Contains(t, out, "import Foundation\nimport RswiftResources\nimport SwiftUI\nimport UIKit\n")
	assert.NotContains(t, out, "import App\n")

	assert.Contains(t, out, "public struct R {\n")
	assert.Contains(t, out, "fileprivate static let hostingBundle = Foundation.Bundle(for: R.Class.self)")
	assert.Contains(t, out, `public static let logo = RswiftResources.ImageResource(name: "logo", bundle: R.hostingBundle)`)
	assert.Contains(t, out, "public static func logo(compatibleWith traitCollection: UIKit.UITraitCollection? = nil) -> UIKit.UIImage? {")
	assert.Contains(t, out, "return UIKit.UIImage(resource: R.image.logo, compatibleWith: traitCollection)")
	assert.Contains(t, out, "return UIKit.UIImage(resource: R.image.icons.home, compatibleWith: traitCollection)")
	assert.Contains(t, out, `public static let storyboardName: String = "Main"`)
	assert.Contains(t, out, "public static func greeting(_ value1: String, locale: Foundation.Locale? = nil) -> String {")
	assert.Contains(t, out, "return Swift.String(format: R.string.localizable.greeting.format(locale: locale), locale: locale, value1)")
	assert.Contains(t, out, "return R.string.localizable.title.format(locale: locale)")
	assert.Contains(t, out, "public static func dataJson(_: Void = ()) -> Foundation.URL? {")
	assert.Contains(t, out, "return R.nib.cell.instantiate.instantiate(withOwner: ownerOrNil)[0] as? UIKit.UITableViewCell")

	assert.Contains(t, out, "\nstruct _R {\n")
	assert.Contains(t, out, "try _R.nib.cell.validate()\n")
	assert.Contains(t, out, "try _R.storyboard.main.validate()\n")
	assert.Contains(t, out, "public static func validate() throws {\n    try _R.validate()\n")
	assert.Contains(t, out, "static func rawTable(_ key: String) -> String? {")
	assert.Contains(t, out, "extension R.string {")

	assert.NotContains(t, out, "RObjc")
	assert.NotContains(t, out, "Potentially Unused Images")
}

func TestPrinterOrdersNaturally(t *testing.T) {
	t.Parallel()
	out, err := NewPrinter(fixtureTree(t), Options{ProductModule: "App"}).Generate()
	require.NoError(t, err)

	logo := strings.Index(out, "static let logo =")
	logo2 := strings.Index(out, "static let logo2 =")
	logo10 := strings.Index(out, "static let logo10 =")
	require.True(t, logo >= 0 && logo2 >= 0 && logo10 >= 0)
	assert.Less(t, logo, logo2)
	assert.Less(t, logo2, logo10)
}

func TestPrinterIsDeterministic(t *testing.T) {
	t.Parallel()
	opts := Options{ProductModule: "App", ObjC: true, ReportUnused: true, UnusedImages: []string{"logo10"}}
	first, err := NewPrinter(fixtureTree(t), opts).Generate()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := NewPrinter(fixtureTree(t), opts).Generate()
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestPrinterObjCAndUnusedBlock(t *testing.T) {
	t.Parallel()
	out, err := NewPrinter(fixtureTree(t), Options{
		ProductModule:    "App",
		BundleIdentifier: "com.example.app",
		ObjC:             true,
		ReportUnused:     true,
		UnusedImages:     []string{"Icons/home", "logo10"},
	}).Generate()
	require.NoError(t, err)

	assert.Contains(t, out, `Foundation.Bundle(identifier: "com.example.app") ?? Foundation.Bundle(for: R.Class.self)`)
	assert.Contains(t, out, "public class AppRObjc: Foundation.NSObject {\n")
	assert.Contains(t, out, "  public static func image_icons_home() -> UIKit.UIImage? {\n    return R.image.icons.home()\n  }\n")
	assert.Contains(t, out, "public static func image_logo10() -> UIKit.UIImage? {")
	assert.Contains(t, out, "return R.string.string(for: key)")
	assert.True(t, strings.HasSuffix(out, "/* Potentially Unused Images\nIcons/home\nlogo10\n*/\n"))
	assert.Less(t, strings.Index(out, "AppRObjc"), strings.Index(out, "Potentially Unused Images"))
}

func TestUnusedBlockEscapesCommentDelimiters(t *testing.T) {
	t.Parallel()
	block := UnusedBlock([]string{"Icons/home", "bad*/name", "open/*nested", "/*/"})

	assert.Equal(t, 1, strings.Count(block, "/*"), block)
	assert.Equal(t, 1, strings.Count(block, "*/"), block)
	assert.True(t, strings.HasSuffix(block, "\n*/"))
	assert.Contains(t, block, "\nIcons/home\n")
	assert.Contains(t, block, `bad\*\/name`)
	assert.Contains(t, block, `open\/\*nested`)
}

func TestPrinterEmptyTree(t *testing.T) {
	t.Parallel()
	tree, err := validate.Validate(aggregate.Aggregate(nil))
	require.NoError(t, err)

	out, err := NewPrinter(tree, Options{ReportUnused: true}).Generate()
	require.NoError(t, err)
	assert.Contains(t, out, "import Foundation\n")
	assert.Contains(t, out, "struct R {\n")
	assert.NotContains(t, out, "_R.validate()")
	assert.NotContains(t, out, "extension R.string")
	assert.True(t, strings.HasSuffix(out, "/* Potentially Unused Images\n\n*/\n"))
}

func TestPrinterRejectsUnvalidatedTree(t *testing.T) {
	t.Parallel()
	_, err := NewPrinter(validate.Tree{}, Options{}).Generate()
	require.Error(t, err)
}

func TestQuote(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"a\\b", `"a\\b"`},
		{"line\nbreak\t", `"line\nbreak\t"`},
		{"\x01", `"\u{1}"`},
		{"héllo", `"héllo"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
