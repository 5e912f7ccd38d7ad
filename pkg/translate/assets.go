package translate

import (
	"fmt"

	"github.com/goliatone/go-content-bridge/pkg/domain"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
)

// Assets converts native assets into normalized ones. Assets carry no draft
// state, so their status is always published. The file URL resolves the
// store-relative path against publicBaseURL.
func Assets(native []store.NativeAsset, manageURLBase, publicBaseURL string) []domain.Asset {
	assets := make([]domain.Asset, 0, len(native))
	for _, asset := range native {
		assets = append(assets, *Asset(asset, manageURLBase, publicBaseURL))
	}
	return assets
}

// Asset converts a single native asset.
func Asset(native store.NativeAsset, manageURLBase, publicBaseURL string) *domain.Asset {
	return &domain.Asset{
		ID:        native.ID,
		Status:    domain.StatusPublished,
		CreatedAt: native.CreatedAt,
		UpdatedAt: native.UpdatedAt,
		ManageURL: fmt.Sprintf("%s/assets/%s", manageURLBase, native.ID),
		Title:     native.Title,
		File: domain.AssetFile{
			URL:    publicBaseURL + native.URL,
			Width:  native.Width,
			Height: native.Height,
		},
	}
}
