package cli

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"kmputil-core/errs"

	"kmputil/internal/appcore"
	"kmputil/internal/logging"
	"kmputil/internal/patterns"
	"kmputil/internal/pipeline"
	"kmputil/internal/source"
	"kmputil/internal/writers"
)

// Flag / config keys. Env vars are KMPFIND_ + upper-cased key with '-' → '_'.
const (
	keyPattern     = "pattern"
	keyPatternFile = "patterns"
	keyKind        = "kind"
	keyFASTA       = "fasta"
	keyFirst       = "first"
	keyCount       = "count"
	keyStart       = "start"
	keyMaxHits     = "max-hits"
	keyOutput      = "output"
	keySort        = "sort"
	keyHeader      = "header"
	keyThreads     = "threads"
	keyNoMatchExit = "no-match-exit-code"
	keyConfig      = "config"
	keyQuiet       = "quiet"
	keyVerbose     = "verbose"
	keyLogJSON     = "log-json"
)

const envPrefix = "KMPFIND"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfigFile merges an explicit config file (toml, yaml or json by
// extension) under flags and env.
func loadConfigFile(v *viper.Viper) error {
	path := v.GetString(keyConfig)
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errs.WithHint(errs.Wrapf(err, "read config %s", path),
			"config files may be .toml, .yaml or .json")
	}
	return nil
}

// patternArgs returns the -p patterns verbatim. Flag values are read from
// the flag set itself, an env value is a single pattern, and a config file
// may give a string or a list.
func patternArgs(v *viper.Viper, flags *pflag.FlagSet) ([]string, error) {
	if f := flags.Lookup(keyPattern); f != nil && f.Changed {
		return flags.GetStringArray(keyPattern)
	}
	if !v.IsSet(keyPattern) {
		return nil, nil
	}
	switch raw := v.Get(keyPattern).(type) {
	case string:
		return []string{raw}, nil
	case []string:
		return raw, nil
	default:
		list, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, errs.Wrapf(err, "config key %q", keyPattern)
		}
		return list, nil
	}
}

// resolve turns the merged flag/env/config view into run options.
func resolve(v *viper.Viper, flags *pflag.FlagSet, files []string) (appcore.Options, logging.Options, error) {
	logOpts := logging.Options{
		JSON:      v.GetBool(keyLogJSON),
		Verbosity: v.GetInt(keyVerbose),
		Quiet:     v.GetBool(keyQuiet),
	}

	enc, err := source.ParseEncoding(v.GetString(keyKind))
	if err != nil {
		return appcore.Options{}, logOpts, err
	}

	asFASTA := v.GetBool(keyFASTA)
	if asFASTA && (enc == source.UTF16LE || enc == source.UTF16BE) {
		return appcore.Options{}, logOpts, errs.WithHint(
			errs.Newf("--fasta cannot be combined with --kind %s", enc),
			"FASTA records are parsed as 8-bit lines; use --kind text or bytes")
	}

	output := strings.ToLower(v.GetString(keyOutput))
	if _, err := writers.Lookup(output); err != nil {
		return appcore.Options{}, logOpts, err
	}

	mode := pipeline.ModeAll
	first, count := v.GetBool(keyFirst), v.GetBool(keyCount)
	switch {
	case first && count:
		return appcore.Options{}, logOpts, errs.New("--first and --count are mutually exclusive")
	case first:
		mode = pipeline.ModeFirst
	case count:
		mode = pipeline.ModeCount
	}

	start, maxHits, threads := v.GetInt(keyStart), v.GetInt(keyMaxHits), v.GetInt(keyThreads)
	if start < 0 {
		return appcore.Options{}, logOpts, errs.Newf("--start must be >= 0 (got %d)", start)
	}
	if maxHits < 0 {
		return appcore.Options{}, logOpts, errs.Newf("--max-hits must be >= 0 (got %d)", maxHits)
	}
	if threads < 0 {
		return appcore.Options{}, logOpts, errs.Newf("--threads must be >= 0 (got %d)", threads)
	}

	args, err := patternArgs(v, flags)
	if err != nil {
		return appcore.Options{}, logOpts, err
	}
	entries := patterns.FromArgs(args)
	if path := v.GetString(keyPatternFile); path != "" {
		fromFile, err := patterns.LoadTSV(path)
		if err != nil {
			return appcore.Options{}, logOpts, err
		}
		entries = append(entries, fromFile...)
	}
	if len(entries) == 0 {
		return appcore.Options{}, logOpts, errs.WithHint(errs.New("no patterns given"),
			"pass --pattern STR (repeatable) or --patterns FILE")
	}

	return appcore.Options{
		Files:           files,
		Patterns:        entries,
		Encoding:        enc,
		FASTA:           asFASTA,
		Mode:            mode,
		Start:           start,
		MaxHits:         maxHits,
		Threads:         threads,
		Output:          output,
		Sort:            v.GetBool(keySort),
		Header:          v.GetBool(keyHeader),
		NoMatchExitCode: v.GetInt(keyNoMatchExit),
	}, logOpts, nil
}
