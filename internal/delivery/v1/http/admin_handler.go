package http

import (
	"net/http"

	"github.com/probagno/go-backend/internal/usecase"
	"github.com/probagno/go-backend/pkg/logger"
)

// CatalogAdminHandler — операции над каталогом целиком.
type CatalogAdminHandler struct {
	catalog usecase.CatalogUC
	backup  usecase.BackupUC
	logger  logger.Logger
}

func NewCatalogAdminHandler(catalog usecase.CatalogUC, backup usecase.BackupUC, logger logger.Logger) *CatalogAdminHandler {
	return &CatalogAdminHandler{catalog: catalog, backup: backup, logger: logger}
}

// resetCatalog
//
//	@Summary		Сброс каталога к исходному
//	@Description	Архивирует текущий снимок (если архив настроен) и заменяет каталог исходным набором
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		500	{object}	ErrorResponse	"Архивация не удалась, сброс не выполнен"
//	@Router			/admin/catalog/reset [post]
func (a *CatalogAdminHandler) resetCatalog(w http.ResponseWriter, r *http.Request) {
	res, err := a.backup.ResetWithBackup(r.Context())
	if err != nil {
		a.logger.Errorf(err, "Catalog reset aborted")
		WriteError(w, err)
		return
	}

	body := map[string]interface{}{"reset": true}
	if res != nil {
		body["backup"] = res
	}
	WriteSuccess(w, http.StatusOK, body)
}

// syncCatalog
//
//	@Summary	Синхронизация каталога с исходным набором
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	usecase.SyncReport
//	@Router		/admin/catalog/sync [post]
func (a *CatalogAdminHandler) syncCatalog(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, a.catalog.SyncWithInitial(r.Context()))
}

// backupCatalog
//
//	@Summary	Архивация снимка каталога
//	@Tags		admin
//	@Produce	json
//	@Success	201	{object}	usecase.BackupRes
//	@Failure	503	{object}	ErrorResponse	"Архив не настроен"
//	@Router		/admin/catalog/backup [post]
func (a *CatalogAdminHandler) backupCatalog(w http.ResponseWriter, r *http.Request) {
	res, err := a.backup.Backup(r.Context(), "manual")
	if err != nil {
		a.logger.Warnf("Catalog backup failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, res)
}
