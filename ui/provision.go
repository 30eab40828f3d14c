package ui

import (
	"context"
	"os"
	"strings"

	"vizboard/adapters/loader"
	"vizboard/domain/table"
	apperrors "vizboard/internal/errors"
	"vizboard/internal/provision"
	"vizboard/internal/testkit"
)

// Provision applies a provisioning file: it loads the declared dataset,
// persists it, activates it, and saves the declared views against it
func (a *App) Provision(ctx context.Context, file *provision.File) error {
	ds, err := a.provisionDataset(ctx, file.Dataset)
	if err != nil {
		return err
	}

	stored, err := a.installDataset(ctx, file.Dataset.Name, ds)
	if err != nil {
		return apperrors.Wrap(err, "failed to persist provisioned dataset")
	}

	views, err := file.SavedViews(stored.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to build provisioned views")
	}
	for _, v := range views {
		if err := a.views.Save(ctx, v); err != nil {
			return apperrors.Wrapf(err, "failed to save provisioned view %q", v.Name)
		}
	}

	a.logger.Info("[Provision] Dataset %q active with %d views", file.Dataset.Name, len(views))
	return nil
}

func (a *App) provisionDataset(ctx context.Context, spec provision.DatasetSpec) (*table.Dataset, error) {
	if spec.Sample {
		sampleConfig := testkit.DefaultSampleConfig()
		sampleConfig.Records = a.config.Data.SampleRecords
		sampleConfig.Seed = a.config.Data.SampleSeed
		return testkit.NewSampleGenerator(sampleConfig).Generate(), nil
	}

	if strings.HasPrefix(spec.Source, "http://") || strings.HasPrefix(spec.Source, "https://") {
		ds, _, err := a.loader.FetchURL(ctx, spec.Source, loader.Format(spec.Format))
		return ds, err
	}
	if spec.Format != "" {
		file, err := os.Open(spec.Source)
		if err != nil {
			return nil, apperrors.LoadError(spec.Source, err)
		}
		defer file.Close()
		return a.loader.LoadReader(file, loader.Format(spec.Format), spec.Source)
	}
	return a.loader.LoadFile(spec.Source)
}
