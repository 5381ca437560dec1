// SPDX-License-Identifier: MIT

package config

import (
	"github.com/NVlabs/GraspGen/internal/validate"
)

var (
	modelNames     = []string{ModelM2T2, ModelDiffusion, ModelDiscriminator}
	optimizerTypes = []string{OptimizerAdam, OptimizerAdamW, OptimizerSGD}
	encoderTypes   = []string{"pointnet", "pointnet2_msg", "pointnet2_msg_cls", "ptv3"}
	activations    = []string{"GELU", "RELU", "LeakyReLU"}
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	// Shared gripper block
	v.NotEmpty("Gripper.Name", cfg.Gripper.Name)
	v.NonDecreasing("Gripper.OffsetBins", cfg.Gripper.OffsetBins, 0)

	// Data pipeline
	v.Positive("Data.NumPoints", cfg.Data.NumPoints)
	v.Positive("Data.NumObjectPoints", cfg.Data.NumObjectPoints)
	v.NonNegative("Data.NumRotations", cfg.Data.NumRotations)
	v.PositiveFloat("Data.GridResolution", cfg.Data.GridResolution)
	v.NonNegativeFloat("Data.JitterScale", cfg.Data.JitterScale)
	v.PositiveFloat("Data.ContactRadius", cfg.Data.ContactRadius)
	v.Probability("Data.RobotProb", cfg.Data.RobotProb)
	v.SumsTo("Data.DiscriminatorRatio", cfg.Data.DiscriminatorRatio, 5, 1.0, 1e-6)
	v.Path("Data.RootDir", cfg.Data.RootDir)
	for _, task := range cfg.Data.Tasks {
		v.OneOf("Data.Tasks", task, []string{"pick", "place"})
	}

	// Encoders
	validateEncoder(v, "M2T2.SceneEncoder", cfg.M2T2.SceneEncoder)
	validateEncoder(v, "M2T2.ObjectEncoder", cfg.M2T2.ObjectEncoder)

	// Contact decoder
	cd := cfg.M2T2.ContactDecoder
	v.Positive("M2T2.ContactDecoder.EmbedDim", cd.EmbedDim)
	v.Positive("M2T2.ContactDecoder.FeedforwardDim", cd.FeedforwardDim)
	v.Positive("M2T2.ContactDecoder.NumScales", cd.NumScales)
	v.Positive("M2T2.ContactDecoder.NumHeads", cd.NumHeads)
	v.Positive("M2T2.ContactDecoder.NumLayers", cd.NumLayers)
	v.Positive("M2T2.ContactDecoder.NumGraspQueries", cd.NumGraspQueries)
	v.Positive("M2T2.ContactDecoder.NumPlaceQueries", cd.NumPlaceQueries)
	if cd.NumHeads > 0 {
		// Attention requires the embedding to split evenly across heads.
		v.DivisibleBy("M2T2.ContactDecoder.EmbedDim", cd.EmbedDim, cd.NumHeads)
	}
	v.OneOf("M2T2.ContactDecoder.Activation", cd.Activation, activations)
	if len(cd.InFeatures) == 0 {
		v.AddError("M2T2.ContactDecoder.InFeatures", "at least one input feature level is required", cd.InFeatures)
	}

	// Action decoder
	ad := cfg.M2T2.ActionDecoder
	v.NonNegative("M2T2.ActionDecoder.MaxNumPred", ad.MaxNumPred)
	v.Positive("M2T2.ActionDecoder.HiddenDim", ad.HiddenDim)
	v.Positive("M2T2.ActionDecoder.NumLayers", ad.NumLayers)
	v.NonNegative("M2T2.ActionDecoder.NumParams", ad.NumParams)
	v.OneOf("M2T2.ActionDecoder.Activation", ad.Activation, activations)

	// Loss weights must be non-negative; topk must be positive.
	v.NonNegativeFloat("M2T2.Matcher.ObjectWeight", cfg.M2T2.Matcher.ObjectWeight)
	v.NonNegativeFloat("M2T2.Matcher.BCEWeight", cfg.M2T2.Matcher.BCEWeight)
	v.NonNegativeFloat("M2T2.Matcher.DiceWeight", cfg.M2T2.Matcher.DiceWeight)
	v.NonNegativeFloat("M2T2.GraspLoss.ObjectWeight", cfg.M2T2.GraspLoss.ObjectWeight)
	v.NonNegativeFloat("M2T2.GraspLoss.NotObjectWeight", cfg.M2T2.GraspLoss.NotObjectWeight)
	v.NonNegativeFloat("M2T2.GraspLoss.PseudoCEWeight", cfg.M2T2.GraspLoss.PseudoCEWeight)
	v.Positive("M2T2.GraspLoss.BCETopK", cfg.M2T2.GraspLoss.BCETopK)
	v.NonNegativeFloat("M2T2.GraspLoss.OffsetWeight", cfg.M2T2.GraspLoss.OffsetWeight)
	v.Positive("M2T2.PlaceLoss.BCETopK", cfg.M2T2.PlaceLoss.BCETopK)

	// Diffusion head
	df := cfg.Diffusion
	v.Positive("Diffusion.NumDiffusionIters", df.NumDiffusionIters)
	v.OneOf("Diffusion.BetaSchedule", df.BetaSchedule, []string{"linear", "scaled_linear", "squaredcos_cap_v2"})
	v.OneOf("Diffusion.PredictionType", df.PredictionType, []string{"epsilon", "sample", "v_prediction"})
	v.Positive("Diffusion.EmbedDim", df.EmbedDim)
	v.OneOf("Diffusion.ObsBackbone", df.ObsBackbone, encoderTypes)
	v.OneOf("Diffusion.GraspRepr", df.GraspRepr, []string{"r3_6d", "r3_euler", "r3_quat"})
	v.Positive("Diffusion.AttentionHeads", df.AttentionHeads)
	if df.AttentionHeads > 0 {
		v.DivisibleBy("Diffusion.EmbedDim", df.EmbedDim, df.AttentionHeads)
	}
	v.PositiveFloat("Diffusion.NoiseScale", df.NoiseScale)

	// Discriminator head
	v.OneOf("Discriminator.ObsBackbone", cfg.Discriminator.ObsBackbone, encoderTypes)
	v.Positive("Discriminator.EmbedDim", cfg.Discriminator.EmbedDim)
	v.Probability("Discriminator.TopKRatio", cfg.Discriminator.TopKRatio)

	// Optimizer
	v.OneOf("Optimizer.Type", cfg.Optimizer.Type, optimizerTypes)
	v.Positive("Optimizer.BaseBatchSize", cfg.Optimizer.BaseBatchSize)
	v.PositiveFloat("Optimizer.BaseLR", cfg.Optimizer.BaseLR)
	v.PositiveFloat("Optimizer.BackboneMultiplier", cfg.Optimizer.BackboneMultiplier)
	v.NonNegativeFloat("Optimizer.GradClip", cfg.Optimizer.GradClip)
	v.NonNegativeFloat("Optimizer.WeightDecay", cfg.Optimizer.WeightDecay)

	// Train
	v.OneOf("Train.ModelName", cfg.Train.ModelName, modelNames)
	v.Positive("Train.NumEpochs", cfg.Train.NumEpochs)
	v.Positive("Train.BatchSize", cfg.Train.BatchSize)
	v.NonNegative("Train.NumWorkers", cfg.Train.NumWorkers)
	v.Positive("Train.PrintFreq", cfg.Train.PrintFreq)
	v.Positive("Train.PlotFreq", cfg.Train.PlotFreq)
	v.Positive("Train.SaveFreq", cfg.Train.SaveFreq)
	v.Path("Train.Checkpoint", cfg.Train.Checkpoint)

	// Eval
	v.OneOf("Eval.ModelName", cfg.Eval.ModelName, modelNames)
	v.Probability("Eval.MaskThresh", cfg.Eval.MaskThresh)
	v.Probability("Eval.ObjectThresh", cfg.Eval.ObjectThresh)
	v.Positive("Eval.NumRuns", cfg.Eval.NumRuns)
	v.NonNegativeFloat("Eval.SurfaceRange", cfg.Eval.SurfaceRange)
	v.NonNegativeFloat("Eval.PlacementHeight", cfg.Eval.PlacementHeight)
	v.PositiveFloat("Eval.PlacementVisRadius", cfg.Eval.PlacementVisRadius)
	v.Path("Eval.Checkpoint", cfg.Eval.Checkpoint)

	// Meshcat
	if cfg.Meshcat.Visualize {
		v.NotEmpty("Meshcat.Host", cfg.Meshcat.Host)
		v.Port("Meshcat.Port", cfg.Meshcat.Port)
	}

	// Obj
	v.Positive("Obj.NumSamplePoints", cfg.Obj.NumSamplePoints)
	v.PositiveFloat("Obj.Scale", cfg.Obj.Scale)

	if !v.IsValid() {
		return v.Err()
	}

	return nil
}

func validateEncoder(v *validate.Validator, prefix string, enc EncoderSettings) {
	v.OneOf(prefix+".Type", enc.Type, encoderTypes)
	v.Positive(prefix+".NumPoints", enc.NumPoints)
	v.Positive(prefix+".Downsample", enc.Downsample)
	v.PositiveFloat(prefix+".Radius", enc.Radius)
	v.Positive(prefix+".RadiusMult", enc.RadiusMult)
}
