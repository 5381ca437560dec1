// SPDX-License-Identifier: MIT

package config

// Model names accepted by train.model_name and eval.model_name.
const (
	ModelM2T2          = "m2t2"
	ModelDiffusion     = "diffusion"
	ModelDiscriminator = "discriminator"
)

// Optimizer types accepted by optimizer.type.
const (
	OptimizerAdam  = "ADAM"
	OptimizerAdamW = "ADAMW"
	OptimizerSGD   = "SGD"
)

// DefaultGripperName is the gripper assumed when no gripper block is configured.
const DefaultGripperName = "franka_panda"

// CurrentConfigVersion is the config_version written by migration and dump.
const CurrentConfigVersion = "v2"

// AppConfig is the effective, fully resolved configuration. All duplicated
// per-namespace gripper settings from legacy files collapse into the single
// Gripper block; consumers never read the per-namespace spellings.
type AppConfig struct {
	Version       string
	ConfigVersion string

	Gripper       GripperSettings
	Data          DataSettings
	M2T2          M2T2Settings
	Diffusion     DiffusionSettings
	Discriminator DiscriminatorSettings
	Optimizer     OptimizerSettings
	Train         TrainSettings
	Eval          EvalSettings
	Meshcat       MeshcatSettings
	Obj           ObjSettings
}

// GripperSettings is the shared gripper description referenced by the data
// pipeline, the action decoder, the diffusion head and the discriminator.
type GripperSettings struct {
	Name       string
	OffsetBins []float64
}

// DataSettings holds dataset construction parameters.
type DataSettings struct {
	RootDir            string
	DatasetCls         string
	CacheDir           string
	NumPoints          int
	NumObjectPoints    int
	WorldCoord         bool
	NumRotations       int // retained for legacy datasets only
	GridResolution     float64
	JitterScale        float64
	ContactRadius      float64
	RobotProb          float64
	Tasks              []string
	DiscriminatorRatio []float64
}

// M2T2Settings groups the sub-model parameter blocks of the m2t2 model.
type M2T2Settings struct {
	SceneEncoder   EncoderSettings
	ObjectEncoder  EncoderSettings
	ContactDecoder ContactDecoderSettings
	ActionDecoder  ActionDecoderSettings
	Matcher        MatcherSettings
	GraspLoss      GraspLossSettings
	PlaceLoss      PlaceLossSettings
}

// EncoderSettings parameterises a point-cloud encoder backbone.
type EncoderSettings struct {
	Type       string
	NumPoints  int
	Downsample int
	Radius     float64
	RadiusMult int
	UseRGB     bool
}

// ContactDecoderSettings parameterises the transformer contact decoder.
type ContactDecoderSettings struct {
	MaskFeature      string
	InFeatures       []string
	PlaceFeature     string
	ObjectInFeatures []string
	EmbedDim         int
	FeedforwardDim   int
	NumScales        int
	NumHeads         int
	NumLayers        int
	NumGraspQueries  int
	NumPlaceQueries  int
	UseAttnMask      bool
	UseTaskEmbed     bool
	Activation       string
}

// ActionDecoderSettings parameterises the grasp/place pose decoder.
type ActionDecoderSettings struct {
	MaxNumPred int // 0 means unlimited
	HiddenDim  int
	NumLayers  int
	NumParams  int
	Activation string
}

// MatcherSettings holds the Hungarian matcher cost weights.
type MatcherSettings struct {
	ObjectWeight float64
	BCEWeight    float64
	DiceWeight   float64
}

// GraspLossSettings holds the grasp loss weights.
type GraspLossSettings struct {
	ObjectWeight      float64
	NotObjectWeight   float64
	PseudoCEWeight    float64
	BCETopK           int
	BCEWeight         float64
	DiceWeight        float64
	ContactDirWeight  float64
	ApproachDirWeight float64
	OffsetWeight      float64
	ParamWeight       float64
}

// PlaceLossSettings holds the placement loss weights.
type PlaceLossSettings struct {
	BCETopK    int
	BCEWeight  float64
	DiceWeight float64
}

// DiffusionSettings parameterises the diffusion grasp generation head.
type DiffusionSettings struct {
	NumDiffusionIters int
	BetaSchedule      string
	PredictionType    string
	ClipSample        bool
	EmbedDim          int
	ObsBackbone       string
	GraspRepr         string
	AttentionHeads    int
	NoiseScale        float64
}

// DiscriminatorSettings parameterises the grasp-scoring head.
type DiscriminatorSettings struct {
	ObsBackbone string
	EmbedDim    int
	TopKRatio   float64
}

// OptimizerSettings holds optimizer factory parameters.
type OptimizerSettings struct {
	Type               string
	BaseBatchSize      int
	BaseLR             float64
	BackboneMultiplier float64
	GradClip           float64
	WeightDecay        float64
}

// TrainSettings holds training run parameters.
type TrainSettings struct {
	ModelName  string
	Checkpoint string
	LogDir     string
	NumEpochs  int
	BatchSize  int
	NumWorkers int
	PrintFreq  int
	PlotFreq   int
	SaveFreq   int
}

// EvalSettings holds evaluation harness parameters.
type EvalSettings struct {
	ModelName          string
	DataDir            string
	Checkpoint         string
	MaskThresh         float64
	ObjectThresh       float64
	NumRuns            int
	WorldCoord         bool
	SurfaceRange       float64
	PlacementHeight    float64
	PlacementVisRadius float64
}

// MeshcatSettings holds visualization server parameters.
type MeshcatSettings struct {
	Visualize bool
	Host      string
	Port      int
}

// ObjSettings holds mesh sampling parameters.
type ObjSettings struct {
	MeshDir         string
	NumSamplePoints int
	Scale           float64
}
