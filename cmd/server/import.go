package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dodai/navigator/internal/models"
)

func (c *cli) newImportCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Load responses from a JSON array export into an empty store",
		Long: `Reads a JSON array of survey responses (the shape GET /api/surveys returns in
"surveys", or a plain array) and inserts each one. Multi-select answers listed
as raw text are stored as that text. Ids and creation times in
the file are not kept. The import is skipped when the store already holds
responses unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.importFile(cmd.Context(), args[0], force)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d responses\n", n)
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "import even when the store is not empty")
	return cmd
}

// storedMultiSelect decodes a multi-select the way the list endpoint writes it,
// including the raw text of a value that was stored malformed.
type storedMultiSelect struct {
	models.MultiSelect
}

func (m *storedMultiSelect) UnmarshalJSON(data []byte) error {
	return m.MultiSelect.UnmarshalStoredJSON(data)
}

// snapshotRecord shadows the multi-select fields of SurveyResponse.
type snapshotRecord struct {
	models.SurveyResponse
	CurrentActivity  storedMultiSelect `json:"current_activity"`
	KnownAITools     storedMultiSelect `json:"known_ai_tools"`
	AILearningMethod storedMultiSelect `json:"ai_learning_method"`
	AIBarriers       storedMultiSelect `json:"ai_barriers"`
}

func (s *snapshotRecord) response() *models.SurveyResponse {
	r := s.SurveyResponse
	r.CurrentActivity = s.CurrentActivity.MultiSelect
	r.KnownAITools = s.KnownAITools.MultiSelect
	r.AILearningMethod = s.AILearningMethod.MultiSelect
	r.AIBarriers = s.AIBarriers.MultiSelect
	return &r
}

// readResponses accepts either a bare array or an object with a "surveys" array.
func readResponses(path string) ([]*models.SurveyResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []*snapshotRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		var wrapped struct {
			Surveys []*snapshotRecord `json:"surveys"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if wrapped.Surveys == nil {
			return nil, errors.New("no surveys array found")
		}
		records = wrapped.Surveys
	}
	rs := make([]*models.SurveyResponse, len(records))
	for i, rec := range records {
		if rec != nil {
			rs[i] = rec.response()
		}
	}
	return rs, nil
}

func (c *cli) importFile(ctx context.Context, path string, force bool) (int, error) {
	rs, err := readResponses(path)
	if err != nil {
		return 0, err
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	existing, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 && !force {
		c.log.Info("store not empty; import skipped", zap.Int64("existing", existing))
		return 0, nil
	}

	idx, err := c.openIndex()
	if err != nil {
		return 0, err
	}
	if idx != nil {
		defer idx.Close()
	}
	svc := c.surveyService(store, idx)

	// Files list newest first, as the list endpoint does; insert oldest first.
	imported := 0
	for i := len(rs) - 1; i >= 0; i-- {
		r := rs[i]
		if r == nil {
			continue
		}
		r.ID = 0
		if _, err := svc.Create(ctx, r); err != nil {
			return imported, fmt.Errorf("import response %d: %w", i, err)
		}
		imported++
	}
	c.log.Info("import finished", zap.String("file", path), zap.Int("imported", imported))
	return imported, nil
}
