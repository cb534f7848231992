package api

import (
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-jsonapi/internal/domain"
	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
	"github.com/phrazzld/scry-jsonapi/internal/store"
)

// MemoPath is the collection path of memos, relative to the API base path.
const MemoPath = "/memos"

// Routes mounts the memo resources on r. basePath is the prefix r is mounted
// under and is used for links.self and Location headers.
func Routes(r chi.Router, basePath string, memos store.MemoStore, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	collection := strings.TrimSuffix(basePath, "/") + MemoPath
	endpointOpts := []jsonapi.EndpointOption{jsonapi.WithBasePath(collection)}
	adapterOpts := []jsonapi.AdapterOption{
		jsonapi.WithLogger(logger),
		jsonapi.WithLogAttrs(slog.String("resource", domain.MemoResourceType)),
	}

	jsonapi.Mount(r, MemoPath,
		jsonapi.NewList[domain.Memo](NewMemoList(memos, logger), endpointOpts...),
		adapterOpts...)
	jsonapi.Mount(r, MemoPath+"/{"+jsonapi.DefaultIDParam+"}",
		jsonapi.NewDetail[domain.Memo](NewMemoDetail(memos, logger), endpointOpts...),
		adapterOpts...)
}
