// SPDX-License-Identifier: MIT

package config

import (
	"strings"
)

// mergeFileConfig overlays a parsed FileConfig onto cfg. Only leaves that are
// present in the file (non-nil pointers, non-empty strings and slices) replace
// the defaults already applied to cfg.
func (l *Loader) mergeFileConfig(cfg *AppConfig, file *FileConfig) error {
	if file == nil {
		return nil
	}

	if v := strings.TrimSpace(file.ConfigVersion); v != "" {
		cfg.ConfigVersion = v
	}

	mergeData(&cfg.Data, &file.Data)
	mergeEncoder(&cfg.M2T2.SceneEncoder, &file.M2T2.SceneEncoder)
	mergeEncoder(&cfg.M2T2.ObjectEncoder, &file.M2T2.ObjectEncoder)
	mergeContactDecoder(&cfg.M2T2.ContactDecoder, &file.M2T2.ContactDecoder)
	mergeActionDecoder(&cfg.M2T2.ActionDecoder, &file.M2T2.ActionDecoder)
	mergeMatcher(&cfg.M2T2.Matcher, &file.M2T2.Matcher)
	mergeGraspLoss(&cfg.M2T2.GraspLoss, &file.M2T2.GraspLoss)
	mergePlaceLoss(&cfg.M2T2.PlaceLoss, &file.M2T2.PlaceLoss)
	mergeDiffusion(&cfg.Diffusion, &file.Diffusion)
	mergeDiscriminator(&cfg.Discriminator, &file.Discriminator)
	mergeOptimizer(&cfg.Optimizer, &file.Optimizer)
	mergeTrain(&cfg.Train, &file.Train)
	mergeEval(&cfg.Eval, &file.Eval)
	mergeMeshcat(&cfg.Meshcat, &file.Meshcat)
	mergeObj(&cfg.Obj, &file.Obj)

	return l.resolveGripper(cfg, file)
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src string) {
	if strings.TrimSpace(src) != "" {
		*dst = src
	}
}

func setFloats(dst *[]float64, src []float64) {
	if src != nil {
		out := make([]float64, len(src))
		copy(out, src)
		*dst = out
	}
}

func setStrings(dst *[]string, src []string) {
	if src != nil {
		out := make([]string, len(src))
		copy(out, src)
		*dst = out
	}
}

func mergeData(dst *DataSettings, src *DataFileConfig) {
	setString(&dst.RootDir, src.RootDir)
	setString(&dst.DatasetCls, src.DatasetCls)
	setString(&dst.CacheDir, src.CacheDir)
	setInt(&dst.NumPoints, src.NumPoints)
	setInt(&dst.NumObjectPoints, src.NumObjectPoints)
	setBool(&dst.WorldCoord, src.WorldCoord)
	setInt(&dst.NumRotations, src.NumRotations)
	setFloat(&dst.GridResolution, src.GridResolution)
	setFloat(&dst.JitterScale, src.JitterScale)
	setFloat(&dst.ContactRadius, src.ContactRadius)
	setFloat(&dst.RobotProb, src.RobotProb)
	setStrings(&dst.Tasks, src.Tasks)
	setFloats(&dst.DiscriminatorRatio, src.DiscriminatorRatio)
}

func mergeEncoder(dst *EncoderSettings, src *EncoderFileConfig) {
	setString(&dst.Type, src.Type)
	setInt(&dst.NumPoints, src.NumPoints)
	setInt(&dst.Downsample, src.Downsample)
	setFloat(&dst.Radius, src.Radius)
	setInt(&dst.RadiusMult, src.RadiusMult)
	setBool(&dst.UseRGB, src.UseRGB)
}

func mergeContactDecoder(dst *ContactDecoderSettings, src *ContactDecoderFileConfig) {
	setString(&dst.MaskFeature, src.MaskFeature)
	setStrings(&dst.InFeatures, src.InFeatures)
	setString(&dst.PlaceFeature, src.PlaceFeature)
	setStrings(&dst.ObjectInFeatures, src.ObjectInFeatures)
	setInt(&dst.EmbedDim, src.EmbedDim)
	setInt(&dst.FeedforwardDim, src.FeedforwardDim)
	setInt(&dst.NumScales, src.NumScales)
	setInt(&dst.NumHeads, src.NumHeads)
	setInt(&dst.NumLayers, src.NumLayers)
	setInt(&dst.NumGraspQueries, src.NumGraspQueries)
	setInt(&dst.NumPlaceQueries, src.NumPlaceQueries)
	setBool(&dst.UseAttnMask, src.UseAttnMask)
	setBool(&dst.UseTaskEmbed, src.UseTaskEmbed)
	setString(&dst.Activation, src.Activation)
}

func mergeActionDecoder(dst *ActionDecoderSettings, src *ActionDecoderFileConfig) {
	setInt(&dst.MaxNumPred, src.MaxNumPred)
	setInt(&dst.HiddenDim, src.HiddenDim)
	setInt(&dst.NumLayers, src.NumLayers)
	setInt(&dst.NumParams, src.NumParams)
	setString(&dst.Activation, src.Activation)
}

func mergeMatcher(dst *MatcherSettings, src *MatcherFileConfig) {
	setFloat(&dst.ObjectWeight, src.ObjectWeight)
	setFloat(&dst.BCEWeight, src.BCEWeight)
	setFloat(&dst.DiceWeight, src.DiceWeight)
}

func mergeGraspLoss(dst *GraspLossSettings, src *GraspLossFileConfig) {
	setFloat(&dst.ObjectWeight, src.ObjectWeight)
	setFloat(&dst.NotObjectWeight, src.NotObjectWeight)
	setFloat(&dst.PseudoCEWeight, src.PseudoCEWeight)
	setInt(&dst.BCETopK, src.BCETopK)
	setFloat(&dst.BCEWeight, src.BCEWeight)
	setFloat(&dst.DiceWeight, src.DiceWeight)
	setFloat(&dst.ContactDirWeight, src.ContactDirWeight)
	setFloat(&dst.ApproachDirWeight, src.ApproachDirWeight)
	setFloat(&dst.OffsetWeight, src.OffsetWeight)
	setFloat(&dst.ParamWeight, src.ParamWeight)
}

func mergePlaceLoss(dst *PlaceLossSettings, src *PlaceLossFileConfig) {
	setInt(&dst.BCETopK, src.BCETopK)
	setFloat(&dst.BCEWeight, src.BCEWeight)
	setFloat(&dst.DiceWeight, src.DiceWeight)
}

func mergeDiffusion(dst *DiffusionSettings, src *DiffusionFileConfig) {
	setInt(&dst.NumDiffusionIters, src.NumDiffusionIters)
	setString(&dst.BetaSchedule, src.BetaSchedule)
	setString(&dst.PredictionType, src.PredictionType)
	setBool(&dst.ClipSample, src.ClipSample)
	setInt(&dst.EmbedDim, src.EmbedDim)
	setString(&dst.ObsBackbone, src.ObsBackbone)
	setString(&dst.GraspRepr, src.GraspRepr)
	setInt(&dst.AttentionHeads, src.AttentionHeads)
	setFloat(&dst.NoiseScale, src.NoiseScale)
}

func mergeDiscriminator(dst *DiscriminatorSettings, src *DiscriminatorFileConfig) {
	setString(&dst.ObsBackbone, src.ObsBackbone)
	setInt(&dst.EmbedDim, src.EmbedDim)
	setFloat(&dst.TopKRatio, src.TopKRatio)
}

func mergeOptimizer(dst *OptimizerSettings, src *OptimizerFileConfig) {
	setString(&dst.Type, src.Type)
	setInt(&dst.BaseBatchSize, src.BaseBatchSize)
	setFloat(&dst.BaseLR, src.BaseLR)
	setFloat(&dst.BackboneMultiplier, src.BackboneMultiplier)
	setFloat(&dst.GradClip, src.GradClip)
	setFloat(&dst.WeightDecay, src.WeightDecay)
}

func mergeTrain(dst *TrainSettings, src *TrainFileConfig) {
	setString(&dst.ModelName, src.ModelName)
	setString(&dst.Checkpoint, src.Checkpoint)
	setString(&dst.LogDir, src.LogDir)
	setInt(&dst.NumEpochs, src.NumEpochs)
	setInt(&dst.BatchSize, src.BatchSize)
	setInt(&dst.NumWorkers, src.NumWorkers)
	setInt(&dst.PrintFreq, src.PrintFreq)
	setInt(&dst.PlotFreq, src.PlotFreq)
	setInt(&dst.SaveFreq, src.SaveFreq)
}

func mergeEval(dst *EvalSettings, src *EvalFileConfig) {
	setString(&dst.ModelName, src.ModelName)
	setString(&dst.DataDir, src.DataDir)
	setString(&dst.Checkpoint, src.Checkpoint)
	setFloat(&dst.MaskThresh, src.MaskThresh)
	setFloat(&dst.ObjectThresh, src.ObjectThresh)
	setInt(&dst.NumRuns, src.NumRuns)
	setBool(&dst.WorldCoord, src.WorldCoord)
	setFloat(&dst.SurfaceRange, src.SurfaceRange)
	setFloat(&dst.PlacementHeight, src.PlacementHeight)
	setFloat(&dst.PlacementVisRadius, src.PlacementVisRadius)
}

func mergeMeshcat(dst *MeshcatSettings, src *MeshcatFileConfig) {
	setBool(&dst.Visualize, src.Visualize)
	setString(&dst.Host, src.Host)
	setInt(&dst.Port, src.Port)
}

func mergeObj(dst *ObjSettings, src *ObjFileConfig) {
	setString(&dst.MeshDir, src.MeshDir)
	setInt(&dst.NumSamplePoints, src.NumSamplePoints)
	setFloat(&dst.Scale, src.Scale)
}
