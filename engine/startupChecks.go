package engine

import (
	"fmt"
	"os"
)

// StartupChecks performs all the checks to make sure everything works
func (serverHandler *ServerHandler) StartupChecks() error {
	if serverHandler.Renderer == nil {
		return fmt.Errorf("no PDF renderer configured")
	}
	if err := workDirectoryChecks("upload", serverHandler.ServerConfig.UploadPath); err != nil {
		return err
	}
	if err := workDirectoryChecks("result", serverHandler.ServerConfig.ResultPath); err != nil {
		return err
	}
	return nil
}

// workDirectoryChecks ensures a work directory exists
func workDirectoryChecks(kind, path string) error {
	if path == "" {
		Logger.Warn("Work directory not configured", "kind", kind)
		return fmt.Errorf("%s path not configured", kind)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			Logger.Info("Creating work directory", "kind", kind, "path", path)
			err = os.MkdirAll(path, 0755)
			if err != nil {
				Logger.Error("Failed to create work directory", "kind", kind, "path", path, "error", err)
				return err
			}
			return nil
		}
		Logger.Error("Error checking work directory", "kind", kind, "path", path, "error", err)
		return err
	}

	if !info.IsDir() {
		Logger.Error("Work path exists but is not a directory", "kind", kind, "path", path)
		return fmt.Errorf("%s path is not a directory: %s", kind, path)
	}

	Logger.Info("Work directory exists", "kind", kind, "path", path)
	return nil
}
