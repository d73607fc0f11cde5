package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/studyflow/internal/config"
)

// --- plan ---

var planCmd = &cobra.Command{
	Use:   "plan <goal>",
	Short: "Generate a study session plan for a goal",
	Long: `Generate a study session plan for a goal.

Examples:
  studyflow plan "Solve calculus homework problems"
  studyflow plan --length long "Review biology notes for the exam"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		length, _ := cmd.Flags().GetString("length")
		goal := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/generate_plan", map[string]any{
			"prompt":        goal,
			"sessionLength": length,
		})
		if err != nil {
			return err
		}

		var plan struct {
			Plan []struct {
				Name     string `json:"name"`
				Duration int    `json:"duration"`
				Type     string `json:"type"`
				Icon     string `json:"icon"`
			} `json:"plan"`
			Category         string `json:"category"`
			TotalTime        int    `json:"total_time"`
			Motivation       string `json:"motivation"`
			FocusAdjustments string `json:"focus_adjustments"`
			FallbackUsed     bool   `json:"fallback_used"`
		}
		if err := decodeJSON(resp, &plan); err != nil {
			return err
		}

		printSuccess("%s plan, %d min total", plan.Category, plan.TotalTime)
		for _, task := range plan.Plan {
			printStep("%s %s (%d min)", task.Icon, task.Name, task.Duration)
		}
		if plan.Motivation != "" {
			printStatus("Motivation", "%s", plan.Motivation)
		}
		if plan.FocusAdjustments != "" {
			printStatus("Focus", "%s", plan.FocusAdjustments)
		}
		if plan.FallbackUsed {
			printWarning("served a degraded fallback plan")
		}
		return nil
	},
}

// --- record ---

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a completed study session",
	Long: `Record a completed study session.

Examples:
  studyflow record --focus 4 --completion 0.9 --type study --duration 45`,
	RunE: func(cmd *cobra.Command, args []string) error {
		focus, _ := cmd.Flags().GetInt("focus")
		completion, _ := cmd.Flags().GetFloat64("completion")
		taskType, _ := cmd.Flags().GetString("type")
		duration, _ := cmd.Flags().GetInt("duration")
		length, _ := cmd.Flags().GetString("length")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/session_complete", map[string]any{
			"focus_score":     focus,
			"completion_rate": completion,
			"task_type":       taskType,
			"duration":        duration,
			"session_length":  length,
		})
		if err != nil {
			return err
		}

		var result struct {
			Message string `json:"message"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("%s", result.Message)
		return nil
	},
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study progress statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/user_stats")
		if err != nil {
			return err
		}

		var payload struct {
			Stats struct {
				TotalSessions     int     `json:"total_sessions"`
				AvgFocus          float64 `json:"avg_focus"`
				FavoriteCategory  string  `json:"favorite_category"`
				TotalStudyTime    int     `json:"total_study_time"`
				RecentPerformance []int   `json:"recent_performance"`
			} `json:"stats"`
		}
		if err := decodeJSON(resp, &payload); err != nil {
			return err
		}

		s := payload.Stats
		printStatus("Sessions", "%d", s.TotalSessions)
		printStatus("Avg focus", "%.1f/5", s.AvgFocus)
		printStatus("Favorite", "%s", s.FavoriteCategory)
		printStatus("Study time", "%d min (recent)", s.TotalStudyTime)
		if len(s.RecentPerformance) > 0 {
			scores := make([]string, len(s.RecentPerformance))
			for i, v := range s.RecentPerformance {
				scores[i] = fmt.Sprintf("%d", v)
			}
			printStatus("Recent", "%s", strings.Join(scores, " "))
		}
		return nil
	},
}

func init() {
	planCmd.Flags().String("length", "medium", "session length: short, medium, or long")

	recordCmd.Flags().Int("focus", 3, "focus score, 1-5")
	recordCmd.Flags().Float64("completion", 0.8, "completion rate, 0-1")
	recordCmd.Flags().String("type", "study", "task type: study, revision, or assignment")
	recordCmd.Flags().Int("duration", 25, "session duration in minutes")
	recordCmd.Flags().String("length", "medium", "session length: short, medium, or long")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
