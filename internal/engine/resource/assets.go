package resource

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"resgen/internal/core/errors"

	"github.com/maruel/natural"
)

var AssetFolderExtensions = []string{"xcassets"}

type assetContents struct {
	Properties struct {
		ProvidesNamespace bool `json:"provides-namespace"`
	} `json:"properties"`
}

// ParseAssetFolder walks an asset catalog directory and lists its image and
// color sets.
func ParseAssetFolder(dir string) (AssetFolder, error) {
	ext := extOf(dir)
	if !hasExt(ext, AssetFolderExtensions) {
		return AssetFolder{}, errors.UnsupportedExtension(dir, ext, AssetFolderExtensions)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return AssetFolder{}, errors.ParsingFailed(dir, err)
	}
	if !info.IsDir() {
		return AssetFolder{}, errors.AddContext(errors.New(errors.CodeParsingFailed, "asset catalog is not a directory"), errors.CtxPath, dir)
	}

	folder := AssetFolder{
		Name: strings.TrimSuffix(filepath.Base(dir), filepath.Ext(dir)),
		Path: dir,
	}
	if err := walkAssets(dir, "", &folder); err != nil {
		return AssetFolder{}, errors.ParsingFailed(dir, err)
	}
	sort.Sort(natural.StringSlice(folder.Images))
	sort.Sort(natural.StringSlice(folder.Colors))
	return folder, nil
}

func walkAssets(dir, namespace string, folder *AssetFolder) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		full := filepath.Join(dir, name)

		switch ext {
		case ".imageset":
			folder.Images = append(folder.Images, path.Join(namespace, base))
		case ".colorset":
			folder.Colors = append(folder.Colors, path.Join(namespace, base))
		case "":
			child := namespace
			provides, err := providesNamespace(full)
			if err != nil {
				return err
			}
			if provides {
				child = path.Join(namespace, base)
			}
			if err := walkAssets(full, child, folder); err != nil {
				return err
			}
		}
	}
	return nil
}

func providesNamespace(dir string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, "Contents.json"))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var contents assetContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return false, err
	}
	return contents.Properties.ProvidesNamespace, nil
}
