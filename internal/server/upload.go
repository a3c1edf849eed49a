package server

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/MennatullahTarek/Center-Dashboard/internal/aggregate"
	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
	"github.com/MennatullahTarek/Center-Dashboard/internal/mappers"
)

const maxUploadBytes = 32 << 20 // 32 MiB, far above any centre's workbook

var allowedUploadExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
}

// UploadHandler parks an uploaded workbook under a one-time token and
// returns a preview (row count, participants, mean satisfaction) so the
// user can check the file before replacing the master dataset.
func (a *App) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedUploadExts[ext] {
			writeError(w, http.StatusBadRequest, "unsupported file type "+ext)
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "read upload failed")
			return
		}

		table, err := ingest.ReadReader(bytes.NewReader(data), header.Filename)
		if err != nil {
			writeError(w, http.StatusBadRequest, "file could not be parsed: "+err.Error())
			return
		}

		token := uuid.NewString()
		if err := os.MkdirAll(a.UploadDir, 0o755); err != nil {
			writeError(w, http.StatusInternalServerError, "store upload failed")
			return
		}
		if err := os.WriteFile(filepath.Join(a.UploadDir, token+ext), data, 0o644); err != nil {
			writeError(w, http.StatusInternalServerError, "store upload failed")
			return
		}

		records := mappers.Normalize(table, a.Loader.Map)
		metrics := aggregate.ComputeMetrics(records)
		writeJSON(w, http.StatusOK, map[string]any{
			"token":   token,
			"rows":    len(records),
			"centres": aggregate.Centres(records),
			"preview": metrics,
		})
	}
}

// ConfirmUploadHandler promotes a parked upload to the master dataset and
// invalidates the snapshot cache.
func (a *App) ConfirmUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := mux.Vars(r)["token"]
		if _, err := uuid.Parse(token); err != nil {
			writeError(w, http.StatusBadRequest, "invalid upload token")
			return
		}

		matches, err := filepath.Glob(filepath.Join(a.UploadDir, token+".*"))
		if err != nil || len(matches) == 0 {
			writeError(w, http.StatusNotFound, "no parked upload for token")
			return
		}
		src := matches[0]

		// Master keeps its configured name but follows the uploaded format.
		cur := a.currentDataPath()
		dest := strings.TrimSuffix(cur, filepath.Ext(cur)) + filepath.Ext(src)
		if dir := filepath.Dir(dest); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				writeError(w, http.StatusInternalServerError, "save dataset failed")
				return
			}
		}

		if err := replaceFile(src, dest); err != nil {
			writeError(w, http.StatusInternalServerError, "save dataset failed")
			return
		}

		a.setDataPath(dest)
		a.Loader.Cache.Invalidate()
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "saved",
			"path":   dest,
		})
	}
}

// replaceFile renames when possible and falls back to copy+remove for
// cross-device moves.
func replaceFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}
