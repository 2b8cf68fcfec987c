// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/x509-trust-validator/src/internal/helper/posix"
	x509certs "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/truststore"
	"github.com/H0llyW00dzZ/x509-trust-validator/src/logger"
	"github.com/spf13/cobra"
)

var (
	// OperationPerformed is set once at least one certificate has been validated.
	OperationPerformed bool
	// OperationPerformedSuccessfully is set when the command finished without error.
	OperationPerformedSuccessfully bool
)

var (
	// ErrInputFileRequired is returned when no certificate path was given or entered.
	ErrInputFileRequired = errors.New("cli: a certificate file is required")
	// ErrTrustDirRequired is returned when no trust store directory was given or entered.
	ErrTrustDirRequired = errors.New("cli: a trust store directory is required")
	// ErrValidationFailed is returned in strict mode when a certificate did not pass.
	ErrValidationFailed = errors.New("cli: certificate validation failed")
	// ErrConflictingFormats is returned when more than one output format is requested.
	ErrConflictingFormats = errors.New("cli: --json, --table and --tree are mutually exclusive")
)

const (
	promptCertificate = "Enter the path of the certificate to verify (.crt or .cer): "
	promptTrustDir    = "Enter the path of the folder with the trusted CAs: "
)

// options holds the command-line flags of one invocation.
type options struct {
	certs      []string
	trustDir   string
	configPath string
	timeout    time.Duration
	maxChain   int
	json       bool
	table      bool
	tree       bool
	strict     bool
	verbose    bool
	logFormat  string
	saveChain  string
	interOnly  bool
}

// NewRootCmd builds the root command.
//
// Diagnostics go to log unless the configuration selects JSON logs, in which
// case a [logger.JSONLogger] writing to the command's error stream is used.
func NewRootCmd(ctx context.Context, version string, log logger.Logger) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   posix.GetExecutableName() + " [-f CERT_FILE] [-t TRUST_DIR]",
		Short: "Validate an X.509 certificate against a directory of trusted roots",
		Long: `Builds the certification chain of a certificate by following its
Authority Information Access extension, checks the expiry of every certificate
in the chain, compares the root public key with the trusted certificates of a
directory and, when the chain is trusted, checks the certificate against the CRL
named by its CRL Distribution Points extension.

Paths that are not given as flags are asked for on standard input.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, version, log)
		},
	}
	cmd.SetContext(ctx)

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.certs, "cert", "f", nil, "certificate to validate, PEM or DER (repeatable)")
	flags.StringVarP(&opts.trustDir, "trust-dir", "t", "", "directory of trusted root certificates")
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file, JSON or YAML (env "+EnvConfigFile+")")
	flags.DurationVar(&opts.timeout, "timeout", x509chain.DefaultTimeout, "timeout of each AIA or CRL download")
	flags.IntVar(&opts.maxChain, "max-chain", x509chain.DefaultMaxLength, "maximum number of certificates in a chain")
	flags.BoolVar(&opts.json, "json", false, "write the report as JSON")
	flags.BoolVar(&opts.table, "table", false, "write the chain as a markdown table")
	flags.BoolVar(&opts.tree, "tree", false, "write the chain as an ASCII tree")
	flags.BoolVar(&opts.strict, "strict", false, "exit with an error when a certificate does not pass")
	flags.StringVar(&opts.logFormat, "log-format", "", `diagnostics format, "text" or "json"`)
	flags.StringVarP(&opts.saveChain, "save-chain", "o", "", "write the built chains as PEM to this file")
	flags.BoolVarP(&opts.interOnly, "intermediate-only", "i", false, "with --save-chain, write intermediate certificates only")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log CRL cache statistics when done")

	return cmd
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCmd(ctx, version, log).ExecuteContext(ctx)
}

// applyFlags overrides the configuration with the flags the user actually set.
func applyFlags(cmd *cobra.Command, opts *options, config *Config) {
	flags := cmd.Flags()
	if flags.Changed("timeout") && opts.timeout > 0 {
		config.Network.Timeout = int(opts.timeout.Round(time.Second) / time.Second)
		if config.Network.Timeout == 0 {
			config.Network.Timeout = 1
		}
	}
	if flags.Changed("max-chain") && opts.maxChain > 0 {
		config.Chain.MaxLength = opts.maxChain
	}
	if flags.Changed("log-format") {
		config.Log.Format = strings.ToLower(opts.logFormat)
	}
	if opts.trustDir != "" {
		config.TrustDir = opts.trustDir
	}
}

// outputFormat returns the report format selected by the flags.
func (o *options) outputFormat() (OutputFormat, error) {
	selected := 0
	for _, set := range []bool{o.json, o.table, o.tree} {
		if set {
			selected++
		}
	}

	switch {
	case selected > 1:
		return OutputText, ErrConflictingFormats
	case o.json:
		return OutputJSON, nil
	case o.table:
		return OutputTable, nil
	case o.tree:
		return OutputTree, nil
	default:
		return OutputText, nil
	}
}

// prompt writes question to out and returns the trimmed line read from in.
func prompt(in *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func run(cmd *cobra.Command, opts *options, version string, log logger.Logger) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	format, err := opts.outputFormat()
	if err != nil {
		return err
	}

	config, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, config)

	if config.Log.Format == "json" {
		log = logger.NewJSONLogger(cmd.ErrOrStderr(), "warning", false)
	}
	log = logger.OrDiscard(log)

	stdin := bufio.NewReader(cmd.InOrStdin())

	certs := opts.certs
	if len(certs) == 0 {
		path, err := prompt(stdin, cmd.ErrOrStderr(), promptCertificate)
		if err != nil {
			return err
		}
		if path == "" {
			return ErrInputFileRequired
		}
		certs = []string{path}
	}

	if config.TrustDir == "" {
		dir, err := prompt(stdin, cmd.ErrOrStderr(), promptTrustDir)
		if err != nil {
			return err
		}
		if dir == "" {
			return ErrTrustDirRequired
		}
		config.TrustDir = dir
	}

	fetcher := x509chain.NewHTTPConfig(version)
	fetcher.Timeout = time.Duration(config.Network.Timeout) * time.Second
	fetcher.UserAgent = config.Network.UserAgent
	fetcher.MaxBodySize = config.Network.MaxBodyBytes

	validator := &Validator{
		Version:   version,
		Fetcher:   fetcher,
		MaxLength: config.Chain.MaxLength,
		CRLCache:  x509chain.NewCRLCache(&x509chain.CRLCacheConfig{MaxSize: config.CRLCache.MaxSize}),
		Log:       log,
	}

	var (
		keys   truststore.KeySet
		saved  []byte
		failed int
	)
	encoder := x509certs.New()

	for _, path := range certs {
		cert, err := LoadCertificate(path)
		if err != nil {
			return err
		}

		if keys == nil {
			if keys, err = LoadTrustStore(config.TrustDir, log); err != nil {
				return err
			}
		}

		report, err := validator.Validate(ctx, cert, keys)
		if err != nil {
			return err
		}
		report.Path = path
		OperationPerformed = true

		if err := report.Write(out, format); err != nil {
			return err
		}
		if !report.Passed() {
			failed++
		}
		if opts.saveChain != "" {
			chainCerts := report.Chain.Snapshot()
			if opts.interOnly {
				chainCerts = report.Chain.FilterIntermediates()
			}
			saved = append(saved, encoder.EncodeMultiplePEM(chainCerts)...)
		}
	}

	if opts.verbose {
		log.Printf("%s", validator.CRLCache.Stats())
	}

	if opts.saveChain != "" {
		if err := os.WriteFile(opts.saveChain, saved, 0644); err != nil {
			return fmt.Errorf("failed to write chain file: %w", err)
		}
	}

	if opts.strict && failed > 0 {
		return fmt.Errorf("%w: %d of %d certificate(s)", ErrValidationFailed, failed, len(certs))
	}

	OperationPerformedSuccessfully = true
	return nil
}
