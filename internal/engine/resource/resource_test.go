package resource

import (
	"os"
	"path/filepath"
	"testing"

	"resgen/internal/core/errors"
	"resgen/internal/engine/symbols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParseImageVariants(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cases := []struct {
		file   string
		name   string
		scale  int
		device string
	}{
		{file: "logo.png", name: "logo", scale: 1},
		{file: "logo@2x.png", name: "logo", scale: 2},
		{file: "logo@3x~ipad.png", name: "logo", scale: 3, device: "ipad"},
		{file: "tab-bar~iphone.png", name: "tab-bar", scale: 1, device: "iphone"},
	}
	for _, tc := range cases {
		img, err := ParseImage(writeFile(t, filepath.Join(dir, tc.file), pngHeader))
		require.NoError(t, err, tc.file)
		assert.Equal(t, tc.name, img.Name, tc.file)
		assert.Equal(t, tc.scale, img.Scale, tc.file)
		assert.Equal(t, tc.device, img.Device, tc.file)
	}
}

func TestParseImageRejectsBadContent(t *testing.T) {
	t.Parallel()
	path := writeFile(t, filepath.Join(t.TempDir(), "fake.png"), []byte("not an image"))

	_, err := ParseImage(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParsingFailed))
}

func TestParsersRejectForeignExtensions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		parse func(string) error
	}{
		{name: "Image", parse: func(p string) error { _, err := ParseImage(p); return err }},
		{name: "Font", parse: func(p string) error { _, err := ParseFont(p); return err }},
		{name: "Strings", parse: func(p string) error { _, err := ParseStrings(p); return err }},
		{name: "Storyboard", parse: func(p string) error { _, err := ParseStoryboard(p); return err }},
		{name: "Nib", parse: func(p string) error { _, err := ParseNib(p); return err }},
		{name: "AssetFolder", parse: func(p string) error { _, err := ParseAssetFolder(p); return err }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.parse("notes.txt")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeUnsupportedExtension))
			assert.Contains(t, err.Error(), `"txt"`)
		})
	}
}

func TestParseFont(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	font, err := ParseFont(writeFile(t, filepath.Join(dir, "Go-Regular.ttf"), goregular.TTF))
	require.NoError(t, err)
	assert.NotEmpty(t, font.Name)

	_, err = ParseFont(writeFile(t, filepath.Join(dir, "broken.otf"), []byte("garbage")))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParsingFailed))
}

func TestParseStrings(t *testing.T) {
	t.Parallel()
	src := `/* Greeting shown on launch */
"greeting" = "Hello %@, you have %d messages";
// single line comment
"escaped" = "Say \"hi\"\n";
"positional" = "%2$@ before %1$@";
percent = "100%% done";
"greeting" = "Hi %@, %d new";
"accent" = "Caf\U00e9";
`
	path := writeFile(t, filepath.Join(t.TempDir(), "en.lproj", "Localizable.strings"), []byte(src))

	table, err := ParseStrings(path)
	require.NoError(t, err)
	assert.Equal(t, "Localizable", table.Table)
	assert.Equal(t, "en", table.Locale)
	require.Len(t, table.Entries, 5)

	keys := make([]string, 0, len(table.Entries))
	for _, e := range table.Entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"accent", "escaped", "greeting", "percent", "positional"}, keys)

	assert.Equal(t, "Café", table.Entries[0].Value)
	assert.Equal(t, "Say \"hi\"\n", table.Entries[1].Value)

	greeting := table.Entries[2]
	assert.Equal(t, "Hi %@, %d new", greeting.Value)
	assert.Equal(t, []Placeholder{{1, ArgObject}, {2, ArgInt}}, greeting.Placeholders)

	assert.Empty(t, table.Entries[3].Placeholders)
	assert.Equal(t, 2, Arity(table.Entries[4].Placeholders))
}

func TestParseStringsUTF16(t *testing.T) {
	t.Parallel()
	text := `"title" = "Titre";`
	data := []byte{0xFF, 0xFE}
	for _, r := range text {
		data = append(data, byte(r), 0)
	}
	path := writeFile(t, filepath.Join(t.TempDir(), "fr.lproj", "Main.strings"), data)

	table, err := ParseStrings(path)
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, "Titre", table.Entries[0].Value)
	assert.Equal(t, "fr", table.Locale)
}

func TestParseStringsSyntaxError(t *testing.T) {
	t.Parallel()
	path := writeFile(t, filepath.Join(t.TempDir(), "Base.lproj", "Broken.strings"), []byte(`"a" = "b;`))

	_, err := ParseStrings(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParsingFailed))
}

func TestParsePlaceholders(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  []Placeholder
	}{
		{value: "plain", want: []Placeholder{}},
		{value: "%@ and %ld", want: []Placeholder{{1, ArgObject}, {2, ArgInt}}},
		{value: "%.2f%%", want: []Placeholder{{1, ArgDouble}}},
		{value: "%2$d %1$@ %1$@", want: []Placeholder{{1, ArgObject}, {2, ArgInt}}},
		{value: "%u %x %c %s %p", want: []Placeholder{{1, ArgUInt}, {2, ArgUInt}, {3, ArgChar}, {4, ArgCString}, {5, ArgPointer}}},
	}
	for _, tc := range cases {
		got, err := ParsePlaceholders(tc.value)
		require.NoError(t, err, tc.value)
		assert.Equal(t, tc.want, got, tc.value)
	}
}

func TestParsePlaceholdersRejectsOutOfRangePositions(t *testing.T) {
	t.Parallel()
	for _, value := range []string{"Hello %9999999999$@", "%65$d", "%0$@", "%99999999999999999999$@"} {
		_, err := ParsePlaceholders(value)
		assert.Error(t, err, value)
	}
	got, err := ParsePlaceholders("%64$@")
	require.NoError(t, err)
	assert.Equal(t, MaxPlaceholderPosition, Arity(got))
}

func TestParseStringsRejectsHugePosition(t *testing.T) {
	t.Parallel()
	src := `"ok" = "fine";
"greeting" = "Hello %9999999999$@";
`
	path := writeFile(t, filepath.Join(t.TempDir(), "en.lproj", "Localizable.strings"), []byte(src))

	_, err := ParseStrings(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParsingFailed))
	assert.Contains(t, err.Error(), "greeting")
	assert.Contains(t, err.Error(), "%9999999999$@")
}

const storyboardXML = `<?xml version="1.0" encoding="UTF-8"?>
<document type="com.apple.InterfaceBuilder3.CocoaTouch.Storyboard.XIB" initialViewController="home">
  <scenes>
    <scene sceneID="s1">
      <objects>
        <viewController id="home" customClass="HomeViewController" customModule="App" sceneMemberID="viewController">
          <view key="view" id="v1">
            <subviews>
              <imageView id="i1" image="header"/>
              <tableView id="t1">
                <prototypes>
                  <tableViewCell reuseIdentifier="ItemCell" customClass="ItemCell" customModule="App" id="c1"/>
                  <tableViewCell reuseIdentifier="ItemCell" customClass="ItemCell" customModule="App" id="c2"/>
                </prototypes>
              </tableView>
            </subviews>
          </view>
          <connections>
            <segue destination="detail" kind="show" identifier="showDetail" id="sg1"/>
            <segue destination="detail" kind="show" id="sg2"/>
          </connections>
        </viewController>
      </objects>
    </scene>
    <scene sceneID="s2">
      <objects>
        <tableViewController storyboardIdentifier="Detail" id="detail" sceneMemberID="viewController"/>
      </objects>
    </scene>
  </scenes>
  <resources>
    <image name="header" width="10" height="10"/>
    <image name="footer" width="10" height="10"/>
  </resources>
</document>`

func TestParseStoryboard(t *testing.T) {
	t.Parallel()
	path := writeFile(t, filepath.Join(t.TempDir(), "Main.storyboard"), []byte(storyboardXML))

	sb, err := ParseStoryboard(path)
	require.NoError(t, err)
	assert.Equal(t, "Main", sb.Name)
	require.Len(t, sb.ViewControllers, 2)

	initial, ok := sb.Initial()
	require.True(t, ok)
	assert.Equal(t, symbols.Type{Module: "App", Name: "HomeViewController"}, initial.Type)
	require.Len(t, initial.Segues, 1)
	assert.Equal(t, "showDetail", initial.Segues[0].Identifier)
	assert.Equal(t, "UITableViewController", initial.Segues[0].Destination.Name)
	assert.Equal(t, symbols.UIStoryboardSegue, initial.Segues[0].Type)

	assert.Equal(t, "Detail", sb.ViewControllers[1].StoryboardIdentifier)
	assert.Len(t, sb.Reusables, 1, "identical reusables are deduplicated")
	assert.Equal(t, []string{"footer", "header"}, sb.UsedImages)
}

func TestParseNib(t *testing.T) {
	t.Parallel()
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<document type="com.apple.InterfaceBuilder3.CocoaTouch.XIB">
  <objects>
    <placeholder placeholderIdentifier="IBFilesOwner" id="-1"/>
    <collectionViewCell reuseIdentifier="PhotoCell" customClass="PhotoCell" id="r1">
      <imageView id="i1" image="placeholder"/>
    </collectionViewCell>
  </objects>
</document>`
	path := writeFile(t, filepath.Join(t.TempDir(), "PhotoCell.xib"), []byte(xml))

	nib, err := ParseNib(path)
	require.NoError(t, err)
	require.Len(t, nib.RootViews, 1)
	assert.Equal(t, "PhotoCell", nib.RootViews[0].Name)
	require.Len(t, nib.Reusables, 1)
	assert.Equal(t, "PhotoCell", nib.Reusables[0].Identifier)
	assert.Equal(t, []string{"placeholder"}, nib.UsedImages)
}

func TestParseAssetFolder(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), "Assets.xcassets")
	writeFile(t, filepath.Join(root, "logo.imageset", "Contents.json"), []byte(`{}`))
	writeFile(t, filepath.Join(root, "Brand.colorset", "Contents.json"), []byte(`{}`))
	writeFile(t, filepath.Join(root, "Icons", "Contents.json"), []byte(`{"properties":{"provides-namespace":true}}`))
	writeFile(t, filepath.Join(root, "Icons", "home.imageset", "Contents.json"), []byte(`{}`))
	writeFile(t, filepath.Join(root, "Plain", "settings.imageset", "Contents.json"), []byte(`{}`))
	writeFile(t, filepath.Join(root, "AppIcon.appiconset", "Contents.json"), []byte(`{}`))

	folder, err := ParseAssetFolder(root)
	require.NoError(t, err)
	assert.Equal(t, "Assets", folder.Name)
	assert.Equal(t, []string{"Icons/home", "logo", "settings"}, folder.Images)
	assert.Equal(t, []string{"Brand"}, folder.Colors)
}

func TestReusableKeyIsStructural(t *testing.T) {
	t.Parallel()
	a := Reusable{Identifier: "Cell|A", Type: symbols.Type{Name: "B"}}
	b := Reusable{Identifier: "Cell", Type: symbols.Type{Name: "A|B"}}
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestCollectorCollectsAndAggregatesFailures(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	paths := []string{
		writeFile(t, filepath.Join(dir, "logo.png"), pngHeader),
		writeFile(t, filepath.Join(dir, "Main.storyboard"), []byte(storyboardXML)),
		writeFile(t, filepath.Join(dir, "data.json"), []byte(`{}`)),
		writeFile(t, filepath.Join(dir, "en.lproj", "Localizable.strings"), []byte(`"a" = "b";`)),
		writeFile(t, filepath.Join(dir, "skip.txt"), []byte(`x`)),
	}

	c := NewCollector(func(p string) bool { return filepath.Base(p) == "skip.txt" })
	res, err := c.Collect(paths)
	require.NoError(t, err)
	assert.Len(t, res.Images, 1)
	assert.Len(t, res.Storyboards, 1)
	assert.Len(t, res.Strings, 1)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "data.json", res.Files[0].Filename)
	assert.Equal(t, 1, res.Counts()[KindSegue])

	bad := []string{
		writeFile(t, filepath.Join(dir, "a.png"), []byte("nope")),
		writeFile(t, filepath.Join(dir, "b.xib"), []byte("<broken")),
	}
	_, err = NewCollector(nil).Collect(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.png")
	assert.Contains(t, err.Error(), "b.xib")
}
