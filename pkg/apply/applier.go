// Package apply installs a rewritten interfaces file and cycles the affected
// interfaces through ifupdown.
package apply

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/akam1o/ifbridge/pkg/logger"
)

const (
	// DefaultConfigMode is the mode of a newly created interfaces file
	DefaultConfigMode = 0644

	// BackupSuffix is appended to the interfaces path for the one-time backup
	BackupSuffix = "-original"

	// NetworkingScript is the sysvinit networking service
	NetworkingScript = "/etc/init.d/networking"
)

// CommandRunner runs a command and returns its combined output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Applier replaces an interfaces file and restarts networking.
type Applier struct {
	// ConfigPath is the interfaces file path
	ConfigPath string

	// BackupEnabled keeps a one-time copy at ConfigPath + BackupSuffix
	BackupEnabled bool

	// AutoRollback restores the previous file when ifup fails
	AutoRollback bool

	// RenderOnly writes the file without touching interfaces
	RenderOnly bool

	// Runner executes commands; nil uses os/exec
	Runner CommandRunner

	log *logger.Logger
}

// NewApplier creates an applier for configPath. log may be nil.
func NewApplier(configPath string, log *logger.Logger) *Applier {
	return &Applier{
		ConfigPath:    configPath,
		BackupEnabled: true,
		AutoRollback:  true,
		log:           log,
	}
}

// BackupPath returns the path of the one-time backup
func (a *Applier) BackupPath() string {
	return a.ConfigPath + BackupSuffix
}

// BackupOriginal copies the interfaces file to BackupPath unless a backup
// already exists, so the very first version is what is kept.
func (a *Applier) BackupOriginal() (created bool, err error) {
	backupPath := a.BackupPath()
	if _, err := os.Stat(backupPath); err == nil {
		return false, nil
	}

	data, err := os.ReadFile(a.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing to back up
			return false, nil
		}
		return false, NewBackupError("failed to read current config", err)
	}

	mode := os.FileMode(DefaultConfigMode)
	if info, err := os.Stat(a.ConfigPath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(backupPath, data, mode); err != nil {
		return false, NewBackupError("failed to write backup file", err)
	}
	return true, nil
}

// WriteConfig writes the interfaces file atomically.
func (a *Applier) WriteConfig(content string) error {
	return a.writeConfigAtomic([]byte(content))
}

// writeConfigAtomic writes config file atomically using temp file + rename.
// Preserves existing file ownership, group, and permissions if the file exists.
func (a *Applier) writeConfigAtomic(data []byte) error {
	var existingStat os.FileInfo
	if stat, err := os.Stat(a.ConfigPath); err == nil {
		existingStat = stat
	}

	// Create temp file in same directory as target config
	dir := filepath.Dir(a.ConfigPath)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(a.ConfigPath)+".tmp.*")
	if err != nil {
		return NewWriteError("failed to create temp file", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return NewWriteError("failed to write temp file", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return NewWriteError("failed to sync temp file", err)
	}
	if err := tmpFile.Close(); err != nil {
		return NewWriteError("failed to close temp file", err)
	}
	tmpFile = nil

	mode := os.FileMode(DefaultConfigMode)
	if existingStat != nil {
		mode = existingStat.Mode().Perm()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return NewPermissionDeniedError("chmod interfaces file", err)
	}

	// Chown needs CAP_CHOWN; failure leaves the file owned by the caller
	if existingStat != nil {
		_ = preserveOwnership(tmpPath, existingStat)
	}

	if err := os.Rename(tmpPath, a.ConfigPath); err != nil {
		os.Remove(tmpPath)
		return NewWriteError("failed to rename interfaces file", err)
	}

	// The rename already succeeded; directory fsync only hardens it against a crash
	_ = syncDir(dir)
	return nil
}

// preserveOwnership preserves the ownership (uid/gid) of the original file.
func preserveOwnership(path string, origStat os.FileInfo) error {
	if sysStat, ok := origStat.Sys().(*syscall.Stat_t); ok {
		return os.Chown(path, int(sysStat.Uid), int(sysStat.Gid))
	}
	return nil
}

// syncDir fsyncs a directory to ensure metadata changes are durable.
func syncDir(path string) error {
	dir, err := os.Open(path)
	if err != nil {
		return err
	}
	defer dir.Close()
	return dir.Sync()
}

// ApplyConfig installs content as the new interfaces file. Unless RenderOnly is
// set, nic is taken down using the old file, networking is restarted around the
// swap and all interfaces are brought up again.
func (a *Applier) ApplyConfig(ctx context.Context, content string, nic string) error {
	if a.BackupEnabled {
		created, err := a.BackupOriginal()
		if err != nil {
			return err
		}
		if created && a.log != nil {
			a.log.Info("Backed up interfaces file", slog.String("backup", a.BackupPath()))
		}
	}

	if a.RenderOnly {
		return a.WriteConfig(content)
	}

	previous, err := os.ReadFile(a.ConfigPath)
	if err != nil {
		return NewWriteError("failed to read current config", err)
	}

	if err := a.run(ctx, "ifdown", "-v", "-i", a.ConfigPath, nic); err != nil {
		return err
	}
	a.runTolerated(ctx, NetworkingScript, "stop")

	if err := a.WriteConfig(content); err != nil {
		a.reactivate(ctx)
		return err
	}

	a.runTolerated(ctx, NetworkingScript, "start")

	if err := a.run(ctx, "ifup", "-a", "-v"); err != nil {
		if !a.AutoRollback {
			return err
		}
		if rollbackErr := a.restore(ctx, previous); rollbackErr != nil {
			return NewRollbackError(
				fmt.Sprintf("ifup failed and rollback failed: ifup=%v, rollback=%v", err, rollbackErr),
				err,
			)
		}
		return NewError(ErrCodeCommandFailed, "ifup failed, rolled back to previous config", err)
	}

	a.runTolerated(ctx, NetworkingScript, "restart")
	return nil
}

// restore writes back the previous file content and brings interfaces up with it
func (a *Applier) restore(ctx context.Context, previous []byte) error {
	if a.log != nil {
		a.log.Warn("Restoring previous interfaces file", slog.String("path", a.ConfigPath))
	}
	if err := a.writeConfigAtomic(previous); err != nil {
		return err
	}
	return a.run(ctx, "ifup", "-a", "-v")
}

// reactivate brings interfaces up again after a failed write. The rename never
// happened, so the previous file is still in place.
func (a *Applier) reactivate(ctx context.Context) {
	if a.log != nil {
		a.log.Warn("Write failed, bringing interfaces up with the previous file",
			slog.String("path", a.ConfigPath))
	}
	a.runTolerated(ctx, NetworkingScript, "start")
	a.runTolerated(ctx, "ifup", "-a", "-v")
}

// run executes a command that must succeed
func (a *Applier) run(ctx context.Context, name string, args ...string) error {
	runner := a.Runner
	if runner == nil {
		runner = execRunner
	}

	command := strings.Join(append([]string{name}, args...), " ")
	if a.log != nil {
		a.log.Info("Running command", slog.String("command", command))
	}

	output, err := runner(ctx, name, args...)
	if err != nil {
		if _, ok := err.(*Error); ok {
			return err
		}
		return NewCommandError(command, output, err)
	}
	return nil
}

// runTolerated executes a command whose failure is only logged, matching
// "|| true" in the init scripts this replaces
func (a *Applier) runTolerated(ctx context.Context, name string, args ...string) {
	if err := a.run(ctx, name, args...); err != nil && a.log != nil {
		a.log.Warn("Command failed, continuing", slog.Any("error", err))
	}
}

// execRunner is the real implementation using os/exec
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, NewToolNotFoundError(name)
	}
	return exec.CommandContext(ctx, path, args...).CombinedOutput()
}
