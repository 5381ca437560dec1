// SPDX-License-Identifier: MIT

// Package config provides configuration management for the graspgen pipeline.
package config

// FileConfig represents the YAML configuration structure as written on disk.
// Optional scalar leaves use pointers so that "not set" can be distinguished
// from an explicit zero or false during merging.
type FileConfig struct {
	ConfigVersion string `yaml:"config_version,omitempty"`

	Gripper       *GripperFileConfig      `yaml:"gripper,omitempty"`
	Data          DataFileConfig          `yaml:"data"`
	M2T2          M2T2FileConfig          `yaml:"m2t2"`
	Diffusion     DiffusionFileConfig     `yaml:"diffusion"`
	Discriminator DiscriminatorFileConfig `yaml:"discriminator"`
	Optimizer     OptimizerFileConfig     `yaml:"optimizer"`
	Train         TrainFileConfig         `yaml:"train"`
	Eval          EvalFileConfig          `yaml:"eval"`
	Meshcat       MeshcatFileConfig       `yaml:"meshcat,omitempty"`
	Obj           ObjFileConfig           `yaml:"obj,omitempty"`
}

// GripperFileConfig is the shared gripper block. It is the canonical home for
// the gripper name and offset bins that older files repeated per namespace.
type GripperFileConfig struct {
	Name       string    `yaml:"name,omitempty"`
	OffsetBins []float64 `yaml:"offset_bins,omitempty"`
}

// DataFileConfig holds dataset construction parameters.
type DataFileConfig struct {
	RootDir         string   `yaml:"root_dir,omitempty"`
	DatasetCls      string   `yaml:"dataset_cls,omitempty"`
	CacheDir        string   `yaml:"cache_dir,omitempty"`
	NumPoints       *int     `yaml:"num_points,omitempty"`
	NumObjectPoints *int     `yaml:"num_object_points,omitempty"`
	WorldCoord      *bool    `yaml:"world_coord,omitempty"`
	NumRotations    *int     `yaml:"num_rotations,omitempty"` // DEPRECATED: rotations are sampled continuously
	GridResolution  *float64 `yaml:"grid_resolution,omitempty"`
	JitterScale     *float64 `yaml:"jitter_scale,omitempty"`
	ContactRadius   *float64 `yaml:"contact_radius,omitempty"`
	RobotProb       *float64 `yaml:"robot_prob,omitempty"`
	GripperName     string   `yaml:"gripper_name,omitempty"` // DEPRECATED: use gripper.name
	Tasks           []string `yaml:"tasks,omitempty"`
	// DEPRECATED: use gripper.offset_bins
	OffsetBins         []float64 `yaml:"offset_bins,omitempty"`
	DiscriminatorRatio []float64 `yaml:"discriminator_ratio,omitempty"`
}

// M2T2FileConfig groups the sub-model parameter blocks of the m2t2 model.
type M2T2FileConfig struct {
	SceneEncoder   EncoderFileConfig        `yaml:"scene_encoder"`
	ObjectEncoder  EncoderFileConfig        `yaml:"object_encoder"`
	ContactDecoder ContactDecoderFileConfig `yaml:"contact_decoder"`
	ActionDecoder  ActionDecoderFileConfig  `yaml:"action_decoder"`
	Matcher        MatcherFileConfig        `yaml:"matcher"`
	GraspLoss      GraspLossFileConfig      `yaml:"grasp_loss"`
	PlaceLoss      PlaceLossFileConfig      `yaml:"place_loss"`
}

// EncoderFileConfig parameterises a point-cloud encoder backbone.
// The same shape serves the scene and the object encoder.
type EncoderFileConfig struct {
	Type       string   `yaml:"type,omitempty"`
	NumPoints  *int     `yaml:"num_points,omitempty"`
	Downsample *int     `yaml:"downsample,omitempty"`
	Radius     *float64 `yaml:"radius,omitempty"`
	RadiusMult *int     `yaml:"radius_mult,omitempty"`
	UseRGB     *bool    `yaml:"use_rgb,omitempty"`
}

// ContactDecoderFileConfig parameterises the transformer contact decoder.
type ContactDecoderFileConfig struct {
	MaskFeature      string   `yaml:"mask_feature,omitempty"`
	InFeatures       []string `yaml:"in_features,omitempty"`
	PlaceFeature     string   `yaml:"place_feature,omitempty"`
	ObjectInFeatures []string `yaml:"object_in_features,omitempty"`
	EmbedDim         *int     `yaml:"embed_dim,omitempty"`
	FeedforwardDim   *int     `yaml:"feedforward_dim,omitempty"`
	NumScales        *int     `yaml:"num_scales,omitempty"`
	NumHeads         *int     `yaml:"num_heads,omitempty"`
	NumLayers        *int     `yaml:"num_layers,omitempty"`
	NumGraspQueries  *int     `yaml:"num_grasp_queries,omitempty"`
	NumPlaceQueries  *int     `yaml:"num_place_queries,omitempty"`
	UseAttnMask      *bool    `yaml:"use_attn_mask,omitempty"`
	UseTaskEmbed     *bool    `yaml:"use_task_embed,omitempty"`
	Activation       string   `yaml:"activation,omitempty"`
}

// ActionDecoderFileConfig parameterises the grasp/place pose decoder.
type ActionDecoderFileConfig struct {
	UseEmbed   *bool  `yaml:"use_embed,omitempty"` // DEPRECATED: embeddings are always used
	MaxNumPred *int   `yaml:"max_num_pred,omitempty"`
	HiddenDim  *int   `yaml:"hidden_dim,omitempty"`
	NumLayers  *int   `yaml:"num_layers,omitempty"`
	NumParams  *int   `yaml:"num_params,omitempty"`
	Activation string `yaml:"activation,omitempty"`
	// DEPRECATED: use gripper.offset_bins
	OffsetBins  []float64 `yaml:"offset_bins,omitempty"`
	GripperName string    `yaml:"gripper_name,omitempty"` // DEPRECATED: use gripper.name
}

// MatcherFileConfig holds the Hungarian matcher cost weights.
type MatcherFileConfig struct {
	ObjectWeight *float64 `yaml:"object_weight,omitempty"`
	BCEWeight    *float64 `yaml:"bce_weight,omitempty"`
	DiceWeight   *float64 `yaml:"dice_weight,omitempty"`
}

// GraspLossFileConfig holds the grasp loss weights.
type GraspLossFileConfig struct {
	ObjectWeight      *float64 `yaml:"object_weight,omitempty"`
	NotObjectWeight   *float64 `yaml:"not_object_weight,omitempty"`
	PseudoCEWeight    *float64 `yaml:"pseudo_ce_weight,omitempty"`
	BCETopK           *int     `yaml:"bce_topk,omitempty"`
	BCEWeight         *float64 `yaml:"bce_weight,omitempty"`
	DiceWeight        *float64 `yaml:"dice_weight,omitempty"`
	ContactDirWeight  *float64 `yaml:"contact_dir_weight,omitempty"`
	ApproachDirWeight *float64 `yaml:"approach_dir_weight,omitempty"`
	OffsetWeight      *float64 `yaml:"offset_weight,omitempty"`
	ParamWeight       *float64 `yaml:"param_weight,omitempty"`
	GripperName       string   `yaml:"gripper_name,omitempty"` // DEPRECATED: use gripper.name
}

// PlaceLossFileConfig holds the placement loss weights.
type PlaceLossFileConfig struct {
	BCETopK    *int     `yaml:"bce_topk,omitempty"`
	BCEWeight  *float64 `yaml:"bce_weight,omitempty"`
	DiceWeight *float64 `yaml:"dice_weight,omitempty"`
}

// DiffusionFileConfig parameterises the diffusion grasp generation head.
type DiffusionFileConfig struct {
	NumDiffusionIters *int     `yaml:"num_diffusion_iters,omitempty"`
	BetaSchedule      string   `yaml:"beta_schedule,omitempty"`
	PredictionType    string   `yaml:"prediction_type,omitempty"`
	ClipSample        *bool    `yaml:"clip_sample,omitempty"`
	EmbedDim          *int     `yaml:"embed_dim,omitempty"`
	ObsBackbone       string   `yaml:"obs_backbone,omitempty"`
	GraspRepr         string   `yaml:"grasp_repr,omitempty"`
	AttentionHeads    *int     `yaml:"attention_heads,omitempty"`
	GripperName       string   `yaml:"gripper_name,omitempty"` // DEPRECATED: use gripper.name
	NoiseScale        *float64 `yaml:"noise_scale,omitempty"`
}

// DiscriminatorFileConfig parameterises the grasp-scoring head.
type DiscriminatorFileConfig struct {
	ObsBackbone string   `yaml:"obs_backbone,omitempty"`
	EmbedDim    *int     `yaml:"embed_dim,omitempty"`
	TopKRatio   *float64 `yaml:"topk_ratio,omitempty"`
	GripperName string   `yaml:"gripper_name,omitempty"` // DEPRECATED: use gripper.name
}

// OptimizerFileConfig holds optimizer factory parameters.
type OptimizerFileConfig struct {
	Type               string   `yaml:"type,omitempty"`
	BaseBatchSize      *int     `yaml:"base_batch_size,omitempty"`
	BaseLR             *float64 `yaml:"base_lr,omitempty"`
	BackboneMultiplier *float64 `yaml:"backbone_multiplier,omitempty"`
	GradClip           *float64 `yaml:"grad_clip,omitempty"`
	WeightDecay        *float64 `yaml:"weight_decay,omitempty"`
}

// TrainFileConfig holds training run parameters.
type TrainFileConfig struct {
	ModelName  string `yaml:"model_name,omitempty"`
	Checkpoint string `yaml:"checkpoint,omitempty"`
	LogDir     string `yaml:"log_dir,omitempty"`
	NumEpochs  *int   `yaml:"num_epochs,omitempty"`
	BatchSize  *int   `yaml:"batch_size,omitempty"`
	NumWorkers *int   `yaml:"num_workers,omitempty"`
	PrintFreq  *int   `yaml:"print_freq,omitempty"`
	PlotFreq   *int   `yaml:"plot_freq,omitempty"`
	SaveFreq   *int   `yaml:"save_freq,omitempty"`
}

// EvalFileConfig holds evaluation harness parameters.
type EvalFileConfig struct {
	ModelName          string   `yaml:"model_name,omitempty"`
	DataDir            string   `yaml:"data_dir,omitempty"`
	Checkpoint         string   `yaml:"checkpoint,omitempty"`
	MaskThresh         *float64 `yaml:"mask_thresh,omitempty"`
	ObjectThresh       *float64 `yaml:"object_thresh,omitempty"`
	NumRuns            *int     `yaml:"num_runs,omitempty"`
	WorldCoord         *bool    `yaml:"world_coord,omitempty"`
	SurfaceRange       *float64 `yaml:"surface_range,omitempty"`
	PlacementHeight    *float64 `yaml:"placement_height,omitempty"`
	PlacementVisRadius *float64 `yaml:"placement_vis_radius,omitempty"`
}

// MeshcatFileConfig holds visualization server parameters.
type MeshcatFileConfig struct {
	Visualize *bool  `yaml:"visualize,omitempty"`
	Host      string `yaml:"host,omitempty"`
	Port      *int   `yaml:"port,omitempty"`
}

// ObjFileConfig holds mesh sampling parameters.
type ObjFileConfig struct {
	MeshDir         string   `yaml:"mesh_dir,omitempty"`
	NumSamplePoints *int     `yaml:"num_sample_points,omitempty"`
	Scale           *float64 `yaml:"scale,omitempty"`
}
