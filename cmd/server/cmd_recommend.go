package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/infralens/api/internal/advisor"
	"github.com/infralens/api/internal/catalog"
	"github.com/infralens/api/internal/config"
	"github.com/infralens/api/internal/models"
	"github.com/infralens/api/internal/rerank"
)

// NoMatchError reports that no model could be recommended for the request.
type NoMatchError struct {
	Task models.TaskType
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no models available for %s", e.Task)
}

type recommendOptions struct {
	cfg    models.RecommendationConfig
	task   string
	live   bool
	llm    bool
	format string
}

func newRecommendCommand() *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print a recommendation without running the API",
		Long: `Rank models for the given constraints and print the result.

By default only the built-in catalog is used. --live adds the model hub and
--llm enables LLM re-ranking when an API key is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.task, "task", "t", "", "Task type: "+taskList())
	f.StringVar(&opts.cfg.GPUMemory, "gpu", "16gb", "GPU memory: 8gb, 16gb, 24gb, 40gb or 80gb")
	f.StringVar(&opts.cfg.InferenceDevice, "device", "consumer-gpu", "Inference device")
	f.IntVar(&opts.cfg.MaxLatency, "latency", 100, "Maximum latency in ms (20-500)")
	f.StringVar(&opts.cfg.LicenseType, "license", models.LicenseAny, "License policy: any, permissive, commercial or non-commercial")
	f.StringVar(&opts.cfg.InferenceFramework, "framework", "", "Inference framework")
	f.StringVar(&opts.cfg.Quantization, "quantization", "", "Quantization")
	f.StringVar(&opts.cfg.DeploymentTarget, "target", "", "Deployment target")
	f.StringVarP(&opts.cfg.UseCaseDescription, "use-case", "u", "", "Free text use case description")
	f.BoolVar(&opts.live, "live", false, "Query the model hub before the built-in catalog")
	f.BoolVar(&opts.llm, "llm", false, "Re-rank with the configured LLM")
	f.StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	_ = cmd.MarkFlagRequired("task")

	return cmd
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions) error {
	if opts.format != "json" && opts.format != "yaml" {
		return fmt.Errorf("unsupported format %q: must be json or yaml", opts.format)
	}
	rc := opts.cfg
	rc.TaskType = models.TaskType(opts.task)
	if err := validateConfig(rc); err != nil {
		return err
	}

	cfg := config.Load()
	logger, err := newCLILogger()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	parts, err := buildCatalog(cfg, nil, catalogOptions{live: opts.live}, logger)
	if err != nil {
		return err
	}
	var reranker *rerank.Reranker
	if opts.llm {
		reranker = buildReranker(cfg, logger)
	}
	svc := advisor.NewService(parts.service, nil, reranker, nil, logger)

	res, err := svc.Recommend(cmd.Context(), rc)
	if errors.Is(err, catalog.ErrNoModels) {
		return &NoMatchError{Task: rc.TaskType}
	}
	if err != nil {
		return err
	}
	logger.Debug("recommendation ready", zap.String("primary", res.Primary.ID))
	return writeResult(cmd.OutOrStdout(), opts.format, res)
}

// validateConfig applies the same rules as the HTTP binding.
func validateConfig(rc models.RecommendationConfig) error {
	v := validator.New()
	v.SetTagName("binding")
	if err := v.Struct(rc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: %q fails %s=%s", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param())
		}
		return err
	}
	return nil
}

func writeResult(w io.Writer, format string, res models.RecommendationResult) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(res)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func taskList() string {
	out := ""
	for i, t := range models.TaskTypes {
		if i > 0 {
			out += ", "
		}
		out += string(t)
	}
	return out
}
