package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/akam1o/ifbridge/pkg/apply"
	"github.com/akam1o/ifbridge/pkg/bridge"
	"github.com/akam1o/ifbridge/pkg/eni"
	"github.com/akam1o/ifbridge/pkg/errors"
	"github.com/akam1o/ifbridge/pkg/hostnet"
	"github.com/akam1o/ifbridge/pkg/logger"
	"github.com/akam1o/ifbridge/pkg/settings"
)

// nicDiscoverer abstracts host inspection for testing
type nicDiscoverer interface {
	Discover() (*hostnet.PrimaryNIC, error)
	EnsureBridge(name string) error
}

// configApplier abstracts installing the rewritten file for testing
type configApplier interface {
	ApplyConfig(ctx context.Context, content string, nic string) error
}

// deps holds the collaborators that touch the host
type deps struct {
	discoverer func(log *logger.Logger) nicDiscoverer
	applier    func(s *settings.Settings, log *logger.Logger) configApplier
}

func defaultDeps() deps {
	return deps{
		discoverer: func(log *logger.Logger) nicDiscoverer {
			return hostnet.NewDiscoverer(log)
		},
		applier: func(s *settings.Settings, log *logger.Logger) configApplier {
			a := apply.NewApplier(s.Filename, log)
			a.BackupEnabled = s.Apply.Backup
			a.AutoRollback = s.Apply.AutoRollback
			a.RenderOnly = s.Apply.RenderOnly
			return a
		},
	}
}

func run(ctx context.Context, f *flags, stdout, stderr io.Writer, d deps) int {
	level, ok := logger.ParseLevel(f.logLevel)
	if !ok {
		fmt.Fprintf(stderr, "Invalid log level: %s, using info\n", f.logLevel)
	}
	log := logger.New("ifbridge", &logger.Config{
		Level:  level,
		Format: f.logFormat,
		Output: stderr,
	})

	s, err := resolveSettings(f, log)
	if err != nil {
		reportError(log, "Invalid settings", err)
		return ExitUsageError
	}

	if s.PrimaryNIC == "" {
		nic, err := d.discoverer(log).Discover()
		if err != nil {
			reportError(log, "Primary NIC discovery failed", err)
			return ExitOperationError
		}
		s.PrimaryNIC = nic.Name
		s.PrimaryNICBonded = nic.Bonded
		if err := s.Validate(); err != nil {
			reportError(log, "Invalid settings", err)
			return ExitUsageError
		}
	}

	log = log.WithField("nic", s.PrimaryNIC)
	log.Info("Bridging interface",
		slog.String("filename", s.Filename),
		slog.Bool("bonded", s.PrimaryNICBonded),
		slog.String("bridge", s.BridgeName),
	)

	stanzas, err := eni.ParseFile(s.Filename, log)
	if err != nil {
		reportError(log, "Cannot read interfaces file", err)
		return ExitOperationError
	}

	if bridge.AlreadyBridged(stanzas, s.BridgeName) {
		log.Warn("Bridge already configured, leaving the file unchanged", slog.String("bridge", s.BridgeName))
		if f.dryRun {
			if err := writeOutput(stdout, f.format, s.Filename, stanzas, stanzas); err != nil {
				reportError(log, "Failed to write output", err)
				return ExitOperationError
			}
		}
		return ExitSuccess
	}

	bridged, err := bridge.NewTransformer(bridge.Options{
		Interface: s.PrimaryNIC,
		Bridge:    s.BridgeName,
		Bonded:    s.PrimaryNICBonded,
	}, log).Transform(stanzas)
	if err != nil {
		code := errors.ErrCodeUnmatchedStanza
		if errors.Is(err, bridge.ErrMalformedDefinition) {
			code = errors.ErrCodeMalformedDefinition
		}
		reportError(log, "Bridge rewrite failed", errors.TransformError(code, s.PrimaryNIC, err))
		return ExitOperationError
	}

	if f.dryRun {
		if err := writeOutput(stdout, f.format, s.Filename, stanzas, bridged); err != nil {
			reportError(log, "Failed to write output", err)
			return ExitOperationError
		}
		return ExitSuccess
	}

	if s.Apply.CreateBridge && !s.Apply.RenderOnly {
		if err := d.discoverer(log).EnsureBridge(s.BridgeName); err != nil {
			reportError(log, "Bridge creation failed", err)
			return ExitOperationError
		}
	}

	if err := d.applier(s, log).ApplyConfig(ctx, eni.RenderString(bridged), s.PrimaryNIC); err != nil {
		reportError(log, "Failed to install interfaces file", err)
		return ExitOperationError
	}

	log.Info("Interfaces file rewritten", slog.String("filename", s.Filename))
	return ExitSuccess
}

// resolveSettings layers defaults, the optional settings file and explicit flags
func resolveSettings(f *flags, log *logger.Logger) (*settings.Settings, error) {
	s := settings.Default()
	if f.settingsPath != "" {
		loaded, err := settings.Load(f.settingsPath, log)
		if err != nil {
			return nil, err
		}
		s = loaded
	}

	if f.set["filename"] {
		s.Filename = f.filename
	}
	if f.set["bridge-name"] {
		s.BridgeName = f.bridgeName
	}
	if f.set["primary-nic"] {
		s.PrimaryNIC = f.primaryNIC
	}
	if f.set["primary-nic-is-bonded"] {
		s.PrimaryNICBonded = f.bonded
	}
	if f.set["render-only"] {
		s.Apply.RenderOnly = f.renderOnly
	}
	if f.set["no-rollback"] {
		s.Apply.AutoRollback = !f.noRollback
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// writeOutput prints the dry-run result in the requested format
func writeOutput(w io.Writer, format, filename string, before, after []eni.Stanza) error {
	switch format {
	case formatDiff:
		return FormatDiff(w, filename, before, after)
	case formatTable:
		return FormatStanzaTable(w, after)
	case formatYAML:
		return FormatYAML(w, after)
	default:
		return eni.Render(w, after)
	}
}

func reportError(log *logger.Logger, msg string, err error) {
	var structured *errors.Error
	if errors.As(err, &structured) {
		log.ErrorWithCause(msg, err, structured.Cause, structured.Action)
		return
	}
	log.Error(msg, slog.Any("error", err))
}
