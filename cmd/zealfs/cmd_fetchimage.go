package main

import (
	"context"
	"io"
	"os"

	"golang.org/x/xerrors"

	"github.com/zeal8bit/zealfs-go/internal/fetchimage"
)

const fetchImageHelp = `zealfs fetch-image [-flags] <repo-url> <asset-name> <out-file>

Download a prebuilt ZealFS OS image from a GitHub repository's latest
release.

Example:
  % zealfs fetch-image -token $GITHUB_TOKEN \
      https://github.com/zeal8bit/zealfs-images os.img os.img
`

func cmdFetchImage(ctx context.Context, args []string) error {
	fset := newFlagSet("fetch-image", fetchImageHelp)
	token := fset.String("token", os.Getenv("GITHUB_TOKEN"), "GitHub API token (optional)")
	fset.Parse(args)
	if fset.NArg() != 3 {
		return xerrors.Errorf("syntax: fetch-image [-flags] <repo-url> <asset-name> <out-file>")
	}
	repoURL, assetName, outPath := fset.Arg(0), fset.Arg(1), fset.Arg(2)

	client, err := fetchimage.New(ctx, repoURL, *token)
	if err != nil {
		return err
	}
	assets, err := client.List(ctx)
	if err != nil {
		return err
	}

	var found *fetchimage.Asset
	for i, a := range assets {
		if a.Name == assetName {
			found = &assets[i]
			break
		}
	}
	if found == nil {
		return xerrors.Errorf("asset %q not found in latest release of %s", assetName, repoURL)
	}

	rc, err := fetchimage.Download(ctx, *found)
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
