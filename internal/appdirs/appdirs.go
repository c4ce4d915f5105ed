package appdirs

import (
	"os"
	"path/filepath"
)

const (
	appDirName   = "docsengine"
	DataDirVar   = "DOCSENGINE_DATA_DIR"
	settingsFile = "settings.json"
)

func DataDir() (string, error) {
	if override := os.Getenv(DataDirVar); override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, settingsFile)
}
