package resource

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"resgen/internal/core/errors"
	"resgen/internal/engine/symbols"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
)

var (
	StoryboardExtensions = []string{"storyboard"}
	NibExtensions        = []string{"xib"}
)

var viewControllerTypes = map[string]symbols.Type{
	"viewController":           symbols.UIViewController,
	"tableViewController":      {Module: symbols.UIKit, Name: "UITableViewController"},
	"collectionViewController": {Module: symbols.UIKit, Name: "UICollectionViewController"},
	"navigationController":     {Module: symbols.UIKit, Name: "UINavigationController"},
	"tabBarController":         {Module: symbols.UIKit, Name: "UITabBarController"},
	"pageViewController":       {Module: symbols.UIKit, Name: "UIPageViewController"},
	"splitViewController":      {Module: symbols.UIKit, Name: "UISplitViewController"},
	"glkViewController":        {Module: "GLKit", Name: "GLKViewController"},
	"avPlayerViewController":   {Module: "AVKit", Name: "AVPlayerViewController"},
}

var reusableTypes = map[string]symbols.Type{
	"tableViewCell":             symbols.UITableViewCell,
	"collectionViewCell":        symbols.UICollectionViewCell,
	"collectionReusableView":    symbols.UICollectionReusableView,
	"tableViewHeaderFooterView": symbols.UITableViewHeaderFooter,
}

var viewTypes = map[string]symbols.Type{
	"view":             symbols.UIView,
	"imageView":        {Module: symbols.UIKit, Name: "UIImageView"},
	"label":            {Module: symbols.UIKit, Name: "UILabel"},
	"button":           {Module: symbols.UIKit, Name: "UIButton"},
	"tableView":        {Module: symbols.UIKit, Name: "UITableView"},
	"scrollView":       {Module: symbols.UIKit, Name: "UIScrollView"},
	"stackView":        {Module: symbols.UIKit, Name: "UIStackView"},
	"textField":        {Module: symbols.UIKit, Name: "UITextField"},
	"textView":         {Module: symbols.UIKit, Name: "UITextView"},
	"switch":           {Module: symbols.UIKit, Name: "UISwitch"},
	"slider":           {Module: symbols.UIKit, Name: "UISlider"},
	"visualEffectView": {Module: symbols.UIKit, Name: "UIVisualEffectView"},
}

var imageAttributes = []string{"image", "highlightedImage", "backgroundImage", "selectedImage", "landscapeImage"}

// ParseStoryboard reads view controllers, segues, reusable views and image
// references from a storyboard document.
func ParseStoryboard(path string) (Storyboard, error) {
	ext := extOf(path)
	if !hasExt(ext, StoryboardExtensions) {
		return Storyboard{}, errors.UnsupportedExtension(path, ext, StoryboardExtensions)
	}
	doc, err := readLayout(path)
	if err != nil {
		return Storyboard{}, err
	}

	sb := Storyboard{
		Name:                  baseName(path),
		Path:                  path,
		InitialViewController: doc.Root().SelectAttrValue("initialViewController", ""),
	}

	typesByID := make(map[string]symbols.Type)
	var controllers []*etree.Element
	walk(doc.Root(), func(el *etree.Element) {
		base, ok := viewControllerTypes[el.Tag]
		if !ok {
			return
		}
		id := el.SelectAttrValue("id", "")
		typesByID[id] = customType(el, base)
		controllers = append(controllers, el)
	})

	for _, el := range controllers {
		vc := ViewController{
			ID:                   el.SelectAttrValue("id", ""),
			StoryboardIdentifier: el.SelectAttrValue("storyboardIdentifier", ""),
			Type:                 typesByID[el.SelectAttrValue("id", "")],
		}
		for _, segueEl := range el.FindElements("./connections/segue") {
			identifier := segueEl.SelectAttrValue("identifier", "")
			if identifier == "" {
				continue
			}
			destination, ok := typesByID[segueEl.SelectAttrValue("destination", "")]
			if !ok {
				destination = symbols.UIViewController
			}
			vc.Segues = append(vc.Segues, Segue{
				Identifier:  identifier,
				Kind:        segueEl.SelectAttrValue("kind", ""),
				Type:        customType(segueEl, symbols.UIStoryboardSegue),
				Destination: destination,
			})
		}
		sb.ViewControllers = append(sb.ViewControllers, vc)
	}

	sb.Reusables = reusables(doc.Root())
	sb.UsedImages = usedImages(doc.Root())
	return sb, nil
}

// ParseNib reads the top-level views, reusable views and image references of
// a nib document.
func ParseNib(path string) (Nib, error) {
	ext := extOf(path)
	if !hasExt(ext, NibExtensions) {
		return Nib{}, errors.UnsupportedExtension(path, ext, NibExtensions)
	}
	doc, err := readLayout(path)
	if err != nil {
		return Nib{}, err
	}

	nib := Nib{Name: baseName(path), Path: path}
	if objects := doc.Root().SelectElement("objects"); objects != nil {
		for _, el := range objects.ChildElements() {
			if el.Tag == "placeholder" {
				continue
			}
			base, ok := viewTypes[el.Tag]
			if !ok {
				if base, ok = reusableTypes[el.Tag]; !ok {
					if base, ok = viewControllerTypes[el.Tag]; !ok {
						continue
					}
				}
			}
			nib.RootViews = append(nib.RootViews, customType(el, base))
		}
	}
	nib.Reusables = reusables(doc.Root())
	nib.UsedImages = usedImages(doc.Root())
	return nib, nil
}

func readLayout(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, errors.ParsingFailed(path, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "document" {
		return nil, errors.ParsingFailed(path, fmt.Errorf("missing <document> root element"))
	}
	return doc, nil
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func walk(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		walk(child, fn)
	}
}

// customType applies customClass/customModule overrides to a UIKit base type.
func customType(el *etree.Element, base symbols.Type) symbols.Type {
	class := el.SelectAttrValue("customClass", "")
	if class == "" {
		return base
	}
	return symbols.Type{Module: symbols.Module(el.SelectAttrValue("customModule", "")), Name: class}
}

func reusables(root *etree.Element) []Reusable {
	seen := make(map[string]bool)
	var out []Reusable
	walk(root, func(el *etree.Element) {
		base, ok := reusableTypes[el.Tag]
		if !ok {
			return
		}
		id := el.SelectAttrValue("reuseIdentifier", "")
		if id == "" {
			return
		}
		r := Reusable{Identifier: id, Type: customType(el, base)}
		if seen[r.Key()] {
			return
		}
		seen[r.Key()] = true
		out = append(out, r)
	})
	return out
}

func usedImages(root *etree.Element) []string {
	seen := make(map[string]bool)
	walk(root, func(el *etree.Element) {
		if el.Tag == "image" && el.Parent() != nil && el.Parent().Tag == "resources" {
			if name := el.SelectAttrValue("name", ""); name != "" {
				seen[name] = true
			}
		}
		for _, attr := range imageAttributes {
			if name := el.SelectAttrValue(attr, ""); name != "" {
				seen[name] = true
			}
		}
	})
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Sort(natural.StringSlice(out))
	return out
}
