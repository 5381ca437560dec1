// SPDX-License-Identifier: MIT

package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

func ptr[T any](v T) *T { return &v }

// CanonicalFileConfig converts an effective configuration back into the
// on-disk representation. The result uses the shared gripper block only;
// deprecated per-namespace spellings are never emitted. Dumping and
// re-loading a canonical file yields the same effective configuration.
func CanonicalFileConfig(cfg AppConfig) FileConfig {
	return FileConfig{
		ConfigVersion: CurrentConfigVersion,
		Gripper: &GripperFileConfig{
			Name:       cfg.Gripper.Name,
			OffsetBins: copyFloats(cfg.Gripper.OffsetBins),
		},
		Data: DataFileConfig{
			RootDir:            cfg.Data.RootDir,
			DatasetCls:         cfg.Data.DatasetCls,
			CacheDir:           cfg.Data.CacheDir,
			NumPoints:          ptr(cfg.Data.NumPoints),
			NumObjectPoints:    ptr(cfg.Data.NumObjectPoints),
			WorldCoord:         ptr(cfg.Data.WorldCoord),
			GridResolution:     ptr(cfg.Data.GridResolution),
			JitterScale:        ptr(cfg.Data.JitterScale),
			ContactRadius:      ptr(cfg.Data.ContactRadius),
			RobotProb:          ptr(cfg.Data.RobotProb),
			Tasks:              copyStrings(cfg.Data.Tasks),
			DiscriminatorRatio: copyFloats(cfg.Data.DiscriminatorRatio),
		},
		M2T2: M2T2FileConfig{
			SceneEncoder:  canonicalEncoder(cfg.M2T2.SceneEncoder),
			ObjectEncoder: canonicalEncoder(cfg.M2T2.ObjectEncoder),
			ContactDecoder: ContactDecoderFileConfig{
				MaskFeature:      cfg.M2T2.ContactDecoder.MaskFeature,
				InFeatures:       copyStrings(cfg.M2T2.ContactDecoder.InFeatures),
				PlaceFeature:     cfg.M2T2.ContactDecoder.PlaceFeature,
				ObjectInFeatures: copyStrings(cfg.M2T2.ContactDecoder.ObjectInFeatures),
				EmbedDim:         ptr(cfg.M2T2.ContactDecoder.EmbedDim),
				FeedforwardDim:   ptr(cfg.M2T2.ContactDecoder.FeedforwardDim),
				NumScales:        ptr(cfg.M2T2.ContactDecoder.NumScales),
				NumHeads:         ptr(cfg.M2T2.ContactDecoder.NumHeads),
				NumLayers:        ptr(cfg.M2T2.ContactDecoder.NumLayers),
				NumGraspQueries:  ptr(cfg.M2T2.ContactDecoder.NumGraspQueries),
				NumPlaceQueries:  ptr(cfg.M2T2.ContactDecoder.NumPlaceQueries),
				UseAttnMask:      ptr(cfg.M2T2.ContactDecoder.UseAttnMask),
				UseTaskEmbed:     ptr(cfg.M2T2.ContactDecoder.UseTaskEmbed),
				Activation:       cfg.M2T2.ContactDecoder.Activation,
			},
			ActionDecoder: ActionDecoderFileConfig{
				MaxNumPred: ptr(cfg.M2T2.ActionDecoder.MaxNumPred),
				HiddenDim:  ptr(cfg.M2T2.ActionDecoder.HiddenDim),
				NumLayers:  ptr(cfg.M2T2.ActionDecoder.NumLayers),
				NumParams:  ptr(cfg.M2T2.ActionDecoder.NumParams),
				Activation: cfg.M2T2.ActionDecoder.Activation,
			},
			Matcher: MatcherFileConfig{
				ObjectWeight: ptr(cfg.M2T2.Matcher.ObjectWeight),
				BCEWeight:    ptr(cfg.M2T2.Matcher.BCEWeight),
				DiceWeight:   ptr(cfg.M2T2.Matcher.DiceWeight),
			},
			GraspLoss: GraspLossFileConfig{
				ObjectWeight:      ptr(cfg.M2T2.GraspLoss.ObjectWeight),
				NotObjectWeight:   ptr(cfg.M2T2.GraspLoss.NotObjectWeight),
				PseudoCEWeight:    ptr(cfg.M2T2.GraspLoss.PseudoCEWeight),
				BCETopK:           ptr(cfg.M2T2.GraspLoss.BCETopK),
				BCEWeight:         ptr(cfg.M2T2.GraspLoss.BCEWeight),
				DiceWeight:        ptr(cfg.M2T2.GraspLoss.DiceWeight),
				ContactDirWeight:  ptr(cfg.M2T2.GraspLoss.ContactDirWeight),
				ApproachDirWeight: ptr(cfg.M2T2.GraspLoss.ApproachDirWeight),
				OffsetWeight:      ptr(cfg.M2T2.GraspLoss.OffsetWeight),
				ParamWeight:       ptr(cfg.M2T2.GraspLoss.ParamWeight),
			},
			PlaceLoss: PlaceLossFileConfig{
				BCETopK:    ptr(cfg.M2T2.PlaceLoss.BCETopK),
				BCEWeight:  ptr(cfg.M2T2.PlaceLoss.BCEWeight),
				DiceWeight: ptr(cfg.M2T2.PlaceLoss.DiceWeight),
			},
		},
		Diffusion: DiffusionFileConfig{
			NumDiffusionIters: ptr(cfg.Diffusion.NumDiffusionIters),
			BetaSchedule:      cfg.Diffusion.BetaSchedule,
			PredictionType:    cfg.Diffusion.PredictionType,
			ClipSample:        ptr(cfg.Diffusion.ClipSample),
			EmbedDim:          ptr(cfg.Diffusion.EmbedDim),
			ObsBackbone:       cfg.Diffusion.ObsBackbone,
			GraspRepr:         cfg.Diffusion.GraspRepr,
			AttentionHeads:    ptr(cfg.Diffusion.AttentionHeads),
			NoiseScale:        ptr(cfg.Diffusion.NoiseScale),
		},
		Discriminator: DiscriminatorFileConfig{
			ObsBackbone: cfg.Discriminator.ObsBackbone,
			EmbedDim:    ptr(cfg.Discriminator.EmbedDim),
			TopKRatio:   ptr(cfg.Discriminator.TopKRatio),
		},
		Optimizer: OptimizerFileConfig{
			Type:               cfg.Optimizer.Type,
			BaseBatchSize:      ptr(cfg.Optimizer.BaseBatchSize),
			BaseLR:             ptr(cfg.Optimizer.BaseLR),
			BackboneMultiplier: ptr(cfg.Optimizer.BackboneMultiplier),
			GradClip:           ptr(cfg.Optimizer.GradClip),
			WeightDecay:        ptr(cfg.Optimizer.WeightDecay),
		},
		Train: TrainFileConfig{
			ModelName:  cfg.Train.ModelName,
			Checkpoint: cfg.Train.Checkpoint,
			LogDir:     cfg.Train.LogDir,
			NumEpochs:  ptr(cfg.Train.NumEpochs),
			BatchSize:  ptr(cfg.Train.BatchSize),
			NumWorkers: ptr(cfg.Train.NumWorkers),
			PrintFreq:  ptr(cfg.Train.PrintFreq),
			PlotFreq:   ptr(cfg.Train.PlotFreq),
			SaveFreq:   ptr(cfg.Train.SaveFreq),
		},
		Eval: EvalFileConfig{
			ModelName:          cfg.Eval.ModelName,
			DataDir:            cfg.Eval.DataDir,
			Checkpoint:         cfg.Eval.Checkpoint,
			MaskThresh:         ptr(cfg.Eval.MaskThresh),
			ObjectThresh:       ptr(cfg.Eval.ObjectThresh),
			NumRuns:            ptr(cfg.Eval.NumRuns),
			WorldCoord:         ptr(cfg.Eval.WorldCoord),
			SurfaceRange:       ptr(cfg.Eval.SurfaceRange),
			PlacementHeight:    ptr(cfg.Eval.PlacementHeight),
			PlacementVisRadius: ptr(cfg.Eval.PlacementVisRadius),
		},
		Meshcat: MeshcatFileConfig{
			Visualize: ptr(cfg.Meshcat.Visualize),
			Host:      cfg.Meshcat.Host,
			Port:      ptr(cfg.Meshcat.Port),
		},
		Obj: ObjFileConfig{
			MeshDir:         cfg.Obj.MeshDir,
			NumSamplePoints: ptr(cfg.Obj.NumSamplePoints),
			Scale:           ptr(cfg.Obj.Scale),
		},
	}
}

func canonicalEncoder(enc EncoderSettings) EncoderFileConfig {
	return EncoderFileConfig{
		Type:       enc.Type,
		NumPoints:  ptr(enc.NumPoints),
		Downsample: ptr(enc.Downsample),
		Radius:     ptr(enc.Radius),
		RadiusMult: ptr(enc.RadiusMult),
		UseRGB:     ptr(enc.UseRGB),
	}
}

// DumpYAML renders the effective configuration as a canonical YAML document.
func DumpYAML(cfg AppConfig) ([]byte, error) {
	out, err := yaml.Marshal(CanonicalFileConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}

// DumpJSON renders the effective configuration as indented JSON. Used by the
// admin API and by `graspgen config dump --format json`.
func DumpJSON(cfg AppConfig) ([]byte, error) {
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}
