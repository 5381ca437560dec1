// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Status defines the lifecycle state of a configuration option.
type Status string

const (
	StatusActive     Status = "Active"
	StatusDeprecated Status = "Deprecated"
	StatusInternal   Status = "Internal"
)

// ConfigEntry defines a single configuration option's metadata.
type ConfigEntry struct {
	Path          string // User-facing path (e.g. "train.batch_size")
	Env           string // Environment variable (e.g. "GRASPGEN_BATCH_SIZE")
	FieldPath     string // Internal field path (e.g. "Train.BatchSize")
	Status        Status // Lifecycle status
	HotReloadable bool   // Safe to apply without restarting a run
	Default       any    // Default value
}

// Registry manages the configuration surface inventory.
type Registry struct {
	ByPath  map[string]ConfigEntry
	ByField map[string]ConfigEntry
	ByEnv   map[string]ConfigEntry
}

var (
	globalRegistry    *Registry
	globalRegistryErr error
	registryOnce      sync.Once
)

// defaultOffsetBins quantize the grasp approach offset into 10 intervals
// over the 8cm stroke of the default parallel-jaw gripper.
var defaultOffsetBins = []float64{
	0, 0.008, 0.016, 0.024, 0.032, 0.04, 0.048, 0.056, 0.064, 0.072, 0.08,
}

// defaultDiscriminatorRatio splits discriminator training data into
// positive / hard-negative / random-negative / perturbed / reserved pools.
var defaultDiscriminatorRatio = []float64{0.50, 0.20, 0.25, 0.05, 0.0}

// GetRegistry returns the global configuration registry.
// It returns an error if the registry contains duplicates or is otherwise invalid.
// Thread-safe via sync.Once.
func GetRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		globalRegistry, globalRegistryErr = buildRegistry()
	})
	return globalRegistry, globalRegistryErr
}

func buildRegistry() (*Registry, error) {
	r := &Registry{
		ByPath:  make(map[string]ConfigEntry),
		ByField: make(map[string]ConfigEntry),
		ByEnv:   make(map[string]ConfigEntry),
	}

	entries := []ConfigEntry{
		// --- CORE ---
		{Path: "config_version", FieldPath: "ConfigVersion", Status: StatusInternal, Default: CurrentConfigVersion},
		{FieldPath: "Version", Status: StatusInternal},

		// --- GRIPPER (shared block) ---
		{Path: "gripper.name", Env: "GRASPGEN_GRIPPER", FieldPath: "Gripper.Name", Status: StatusActive, Default: DefaultGripperName},
		{Path: "gripper.offset_bins", Env: "GRASPGEN_OFFSET_BINS", FieldPath: "Gripper.OffsetBins", Status: StatusActive, Default: defaultOffsetBins},

		// --- DATA ---
		{Path: "data.root_dir", Env: "GRASPGEN_DATA_ROOT", FieldPath: "Data.RootDir", Status: StatusActive},
		{Path: "data.dataset_cls", Env: "GRASPGEN_DATASET_CLS", FieldPath: "Data.DatasetCls", Status: StatusActive, Default: "acronym"},
		{Path: "data.cache_dir", Env: "GRASPGEN_CACHE_DIR", FieldPath: "Data.CacheDir", Status: StatusActive},
		{Path: "data.num_points", FieldPath: "Data.NumPoints", Status: StatusActive, Default: 16384},
		{Path: "data.num_object_points", FieldPath: "Data.NumObjectPoints", Status: StatusActive, Default: 1024},
		{Path: "data.world_coord", FieldPath: "Data.WorldCoord", Status: StatusActive, Default: true},
		{Path: "data.num_rotations", FieldPath: "Data.NumRotations", Status: StatusDeprecated, Default: 8},
		{Path: "data.grid_resolution", FieldPath: "Data.GridResolution", Status: StatusActive, Default: 0.01},
		{Path: "data.jitter_scale", FieldPath: "Data.JitterScale", Status: StatusActive, Default: 0.0},
		{Path: "data.contact_radius", FieldPath: "Data.ContactRadius", Status: StatusActive, Default: 0.005},
		{Path: "data.robot_prob", FieldPath: "Data.RobotProb", Status: StatusActive, Default: 1.0},
		{Path: "data.tasks", Env: "GRASPGEN_TASKS", FieldPath: "Data.Tasks", Status: StatusActive, Default: []string{"pick", "place"}},
		{Path: "data.discriminator_ratio", FieldPath: "Data.DiscriminatorRatio", Status: StatusActive, Default: defaultDiscriminatorRatio},

		// --- M2T2 SCENE ENCODER ---
		{Path: "m2t2.scene_encoder.type", FieldPath: "M2T2.SceneEncoder.Type", Status: StatusActive, Default: "pointnet2_msg"},
		{Path: "m2t2.scene_encoder.num_points", FieldPath: "M2T2.SceneEncoder.NumPoints", Status: StatusActive, Default: 16384},
		{Path: "m2t2.scene_encoder.downsample", FieldPath: "M2T2.SceneEncoder.Downsample", Status: StatusActive, Default: 4},
		{Path: "m2t2.scene_encoder.radius", FieldPath: "M2T2.SceneEncoder.Radius", Status: StatusActive, Default: 0.05},
		{Path: "m2t2.scene_encoder.radius_mult", FieldPath: "M2T2.SceneEncoder.RadiusMult", Status: StatusActive, Default: 2},
		{Path: "m2t2.scene_encoder.use_rgb", FieldPath: "M2T2.SceneEncoder.UseRGB", Status: StatusActive, Default: false},

		// --- M2T2 OBJECT ENCODER ---
		{Path: "m2t2.object_encoder.type", FieldPath: "M2T2.ObjectEncoder.Type", Status: StatusActive, Default: "pointnet2_msg_cls"},
		{Path: "m2t2.object_encoder.num_points", FieldPath: "M2T2.ObjectEncoder.NumPoints", Status: StatusActive, Default: 1024},
		{Path: "m2t2.object_encoder.downsample", FieldPath: "M2T2.ObjectEncoder.Downsample", Status: StatusActive, Default: 4},
		{Path: "m2t2.object_encoder.radius", FieldPath: "M2T2.ObjectEncoder.Radius", Status: StatusActive, Default: 0.05},
		{Path: "m2t2.object_encoder.radius_mult", FieldPath: "M2T2.ObjectEncoder.RadiusMult", Status: StatusActive, Default: 2},
		{Path: "m2t2.object_encoder.use_rgb", FieldPath: "M2T2.ObjectEncoder.UseRGB", Status: StatusActive, Default: false},

		// --- M2T2 CONTACT DECODER ---
		{Path: "m2t2.contact_decoder.mask_feature", FieldPath: "M2T2.ContactDecoder.MaskFeature", Status: StatusActive, Default: "res0"},
		{Path: "m2t2.contact_decoder.in_features", FieldPath: "M2T2.ContactDecoder.InFeatures", Status: StatusActive, Default: []string{"res1", "res2", "res3"}},
		{Path: "m2t2.contact_decoder.place_feature", FieldPath: "M2T2.ContactDecoder.PlaceFeature", Status: StatusActive, Default: "res4"},
		{Path: "m2t2.contact_decoder.object_in_features", FieldPath: "M2T2.ContactDecoder.ObjectInFeatures", Status: StatusActive, Default: []string{"res1", "res2", "res3"}},
		{Path: "m2t2.contact_decoder.embed_dim", FieldPath: "M2T2.ContactDecoder.EmbedDim", Status: StatusActive, Default: 256},
		{Path: "m2t2.contact_decoder.feedforward_dim", FieldPath: "M2T2.ContactDecoder.FeedforwardDim", Status: StatusActive, Default: 512},
		{Path: "m2t2.contact_decoder.num_scales", FieldPath: "M2T2.ContactDecoder.NumScales", Status: StatusActive, Default: 3},
		{Path: "m2t2.contact_decoder.num_heads", FieldPath: "M2T2.ContactDecoder.NumHeads", Status: StatusActive, Default: 8},
		{Path: "m2t2.contact_decoder.num_layers", FieldPath: "M2T2.ContactDecoder.NumLayers", Status: StatusActive, Default: 9},
		{Path: "m2t2.contact_decoder.num_grasp_queries", FieldPath: "M2T2.ContactDecoder.NumGraspQueries", Status: StatusActive, Default: 100},
		{Path: "m2t2.contact_decoder.num_place_queries", FieldPath: "M2T2.ContactDecoder.NumPlaceQueries", Status: StatusActive, Default: 8},
		{Path: "m2t2.contact_decoder.use_attn_mask", FieldPath: "M2T2.ContactDecoder.UseAttnMask", Status: StatusActive, Default: true},
		{Path: "m2t2.contact_decoder.use_task_embed", FieldPath: "M2T2.ContactDecoder.UseTaskEmbed", Status: StatusActive, Default: true},
		{Path: "m2t2.contact_decoder.activation", FieldPath: "M2T2.ContactDecoder.Activation", Status: StatusActive, Default: "GELU"},

		// --- M2T2 ACTION DECODER ---
		{Path: "m2t2.action_decoder.max_num_pred", FieldPath: "M2T2.ActionDecoder.MaxNumPred", Status: StatusActive, Default: 0},
		{Path: "m2t2.action_decoder.hidden_dim", FieldPath: "M2T2.ActionDecoder.HiddenDim", Status: StatusActive, Default: 256},
		{Path: "m2t2.action_decoder.num_layers", FieldPath: "M2T2.ActionDecoder.NumLayers", Status: StatusActive, Default: 2},
		{Path: "m2t2.action_decoder.num_params", FieldPath: "M2T2.ActionDecoder.NumParams", Status: StatusActive, Default: 0},
		{Path: "m2t2.action_decoder.activation", FieldPath: "M2T2.ActionDecoder.Activation", Status: StatusActive, Default: "GELU"},

		// --- M2T2 MATCHER ---
		{Path: "m2t2.matcher.object_weight", FieldPath: "M2T2.Matcher.ObjectWeight", Status: StatusActive, Default: 2.0},
		{Path: "m2t2.matcher.bce_weight", FieldPath: "M2T2.Matcher.BCEWeight", Status: StatusActive, Default: 5.0},
		{Path: "m2t2.matcher.dice_weight", FieldPath: "M2T2.Matcher.DiceWeight", Status: StatusActive, Default: 5.0},

		// --- M2T2 GRASP LOSS ---
		{Path: "m2t2.grasp_loss.object_weight", FieldPath: "M2T2.GraspLoss.ObjectWeight", Status: StatusActive, Default: 2.0},
		{Path: "m2t2.grasp_loss.not_object_weight", FieldPath: "M2T2.GraspLoss.NotObjectWeight", Status: StatusActive, Default: 0.1},
		{Path: "m2t2.grasp_loss.pseudo_ce_weight", FieldPath: "M2T2.GraspLoss.PseudoCEWeight", Status: StatusActive, Default: 0.0},
		{Path: "m2t2.grasp_loss.bce_topk", FieldPath: "M2T2.GraspLoss.BCETopK", Status: StatusActive, Default: 512},
		{Path: "m2t2.grasp_loss.bce_weight", FieldPath: "M2T2.GraspLoss.BCEWeight", Status: StatusActive, Default: 5.0},
		{Path: "m2t2.grasp_loss.dice_weight", FieldPath: "M2T2.GraspLoss.DiceWeight", Status: StatusActive, Default: 5.0},
		{Path: "m2t2.grasp_loss.contact_dir_weight", FieldPath: "M2T2.GraspLoss.ContactDirWeight", Status: StatusActive, Default: 0.0},
		{Path: "m2t2.grasp_loss.approach_dir_weight", FieldPath: "M2T2.GraspLoss.ApproachDirWeight", Status: StatusActive, Default: 0.0},
		{Path: "m2t2.grasp_loss.offset_weight", FieldPath: "M2T2.GraspLoss.OffsetWeight", Status: StatusActive, Default: 1.0},
		{Path: "m2t2.grasp_loss.param_weight", FieldPath: "M2T2.GraspLoss.ParamWeight", Status: StatusActive, Default: 1.0},

		// --- M2T2 PLACE LOSS ---
		{Path: "m2t2.place_loss.bce_topk", FieldPath: "M2T2.PlaceLoss.BCETopK", Status: StatusActive, Default: 1024},
		{Path: "m2t2.place_loss.bce_weight", FieldPath: "M2T2.PlaceLoss.BCEWeight", Status: StatusActive, Default: 5.0},
		{Path: "m2t2.place_loss.dice_weight", FieldPath: "M2T2.PlaceLoss.DiceWeight", Status: StatusActive, Default: 5.0},

		// --- DIFFUSION ---
		{Path: "diffusion.num_diffusion_iters", Env: "GRASPGEN_NUM_DIFFUSION_ITERS", FieldPath: "Diffusion.NumDiffusionIters", Status: StatusActive, Default: 100},
		{Path: "diffusion.beta_schedule", FieldPath: "Diffusion.BetaSchedule", Status: StatusActive, Default: "squaredcos_cap_v2"},
		{Path: "diffusion.prediction_type", FieldPath: "Diffusion.PredictionType", Status: StatusActive, Default: "epsilon"},
		{Path: "diffusion.clip_sample", FieldPath: "Diffusion.ClipSample", Status: StatusActive, Default: true},
		{Path: "diffusion.embed_dim", FieldPath: "Diffusion.EmbedDim", Status: StatusActive, Default: 256},
		{Path: "diffusion.obs_backbone", FieldPath: "Diffusion.ObsBackbone", Status: StatusActive, Default: "pointnet"},
		{Path: "diffusion.grasp_repr", FieldPath: "Diffusion.GraspRepr", Status: StatusActive, Default: "r3_6d"},
		{Path: "diffusion.attention_heads", FieldPath: "Diffusion.AttentionHeads", Status: StatusActive, Default: 8},
		{Path: "diffusion.noise_scale", FieldPath: "Diffusion.NoiseScale", Status: StatusActive, Default: 1.0},

		// --- DISCRIMINATOR ---
		{Path: "discriminator.obs_backbone", FieldPath: "Discriminator.ObsBackbone", Status: StatusActive, Default: "pointnet"},
		{Path: "discriminator.embed_dim", FieldPath: "Discriminator.EmbedDim", Status: StatusActive, Default: 256},
		{Path: "discriminator.topk_ratio", FieldPath: "Discriminator.TopKRatio", Status: StatusActive, Default: 0.1},

		// --- OPTIMIZER ---
		{Path: "optimizer.type", FieldPath: "Optimizer.Type", Status: StatusActive, Default: OptimizerAdamW},
		{Path: "optimizer.base_batch_size", FieldPath: "Optimizer.BaseBatchSize", Status: StatusActive, Default: 16},
		{Path: "optimizer.base_lr", FieldPath: "Optimizer.BaseLR", Status: StatusActive, Default: 0.0001},
		{Path: "optimizer.backbone_multiplier", FieldPath: "Optimizer.BackboneMultiplier", Status: StatusActive, Default: 1.0},
		{Path: "optimizer.grad_clip", FieldPath: "Optimizer.GradClip", Status: StatusActive, Default: 0.01},
		{Path: "optimizer.weight_decay", FieldPath: "Optimizer.WeightDecay", Status: StatusActive, Default: 0.05},

		// --- TRAIN ---
		{Path: "train.model_name", Env: "GRASPGEN_TRAIN_MODEL", FieldPath: "Train.ModelName", Status: StatusActive, Default: ModelM2T2},
		{Path: "train.checkpoint", Env: "GRASPGEN_TRAIN_CHECKPOINT", FieldPath: "Train.Checkpoint", Status: StatusActive},
		{Path: "train.log_dir", Env: "GRASPGEN_LOG_DIR", FieldPath: "Train.LogDir", Status: StatusActive, Default: "logs"},
		{Path: "train.num_epochs", Env: "GRASPGEN_NUM_EPOCHS", FieldPath: "Train.NumEpochs", Status: StatusActive, Default: 160},
		{Path: "train.batch_size", Env: "GRASPGEN_BATCH_SIZE", FieldPath: "Train.BatchSize", Status: StatusActive, Default: 8},
		{Path: "train.num_workers", Env: "GRASPGEN_NUM_WORKERS", FieldPath: "Train.NumWorkers", Status: StatusActive, Default: 8},
		{Path: "train.print_freq", FieldPath: "Train.PrintFreq", Status: StatusActive, HotReloadable: true, Default: 25},
		{Path: "train.plot_freq", FieldPath: "Train.PlotFreq", Status: StatusActive, HotReloadable: true, Default: 50},
		{Path: "train.save_freq", FieldPath: "Train.SaveFreq", Status: StatusActive, HotReloadable: true, Default: 10},

		// --- EVAL ---
		{Path: "eval.model_name", Env: "GRASPGEN_EVAL_MODEL", FieldPath: "Eval.ModelName", Status: StatusActive, Default: ModelM2T2},
		{Path: "eval.data_dir", Env: "GRASPGEN_EVAL_DATA_DIR", FieldPath: "Eval.DataDir", Status: StatusActive},
		{Path: "eval.checkpoint", Env: "GRASPGEN_EVAL_CHECKPOINT", FieldPath: "Eval.Checkpoint", Status: StatusActive},
		{Path: "eval.mask_thresh", Env: "GRASPGEN_MASK_THRESH", FieldPath: "Eval.MaskThresh", Status: StatusActive, HotReloadable: true, Default: 0.4},
		{Path: "eval.object_thresh", Env: "GRASPGEN_OBJECT_THRESH", FieldPath: "Eval.ObjectThresh", Status: StatusActive, HotReloadable: true, Default: 0.4},
		{Path: "eval.num_runs", FieldPath: "Eval.NumRuns", Status: StatusActive, HotReloadable: true, Default: 1},
		{Path: "eval.world_coord", FieldPath: "Eval.WorldCoord", Status: StatusActive, Default: true},
		{Path: "eval.surface_range", FieldPath: "Eval.SurfaceRange", Status: StatusActive, HotReloadable: true, Default: 0.02},
		{Path: "eval.placement_height", FieldPath: "Eval.PlacementHeight", Status: StatusActive, HotReloadable: true, Default: 0.02},
		{Path: "eval.placement_vis_radius", FieldPath: "Eval.PlacementVisRadius", Status: StatusActive, HotReloadable: true, Default: 0.3},

		// --- MESHCAT ---
		{Path: "meshcat.visualize", Env: "GRASPGEN_MESHCAT_VISUALIZE", FieldPath: "Meshcat.Visualize", Status: StatusActive, HotReloadable: true, Default: false},
		{Path: "meshcat.host", Env: "GRASPGEN_MESHCAT_HOST", FieldPath: "Meshcat.Host", Status: StatusActive, HotReloadable: true, Default: "localhost"},
		{Path: "meshcat.port", Env: "GRASPGEN_MESHCAT_PORT", FieldPath: "Meshcat.Port", Status: StatusActive, HotReloadable: true, Default: 7000},

		// --- OBJ ---
		{Path: "obj.mesh_dir", Env: "GRASPGEN_OBJ_MESH_DIR", FieldPath: "Obj.MeshDir", Status: StatusActive},
		{Path: "obj.num_sample_points", FieldPath: "Obj.NumSamplePoints", Status: StatusActive, Default: 2048},
		{Path: "obj.scale", FieldPath: "Obj.Scale", Status: StatusActive, Default: 1.0},
	}

	for _, e := range entries {
		if e.Path != "" {
			if _, dup := r.ByPath[e.Path]; dup {
				return nil, fmt.Errorf("duplicate registry path: %s", e.Path)
			}
			r.ByPath[e.Path] = e
		}
		if e.FieldPath != "" {
			if _, dup := r.ByField[e.FieldPath]; dup {
				return nil, fmt.Errorf("duplicate registry field: %s", e.FieldPath)
			}
			r.ByField[e.FieldPath] = e
		}
		if e.Env != "" {
			if _, dup := r.ByEnv[e.Env]; dup {
				return nil, fmt.Errorf("duplicate registry env: %s", e.Env)
			}
			r.ByEnv[e.Env] = e
		}
	}

	return r, nil
}

// Paths returns all registered user-facing paths in sorted order.
func (r *Registry) Paths() []string {
	out := make([]string, 0, len(r.ByPath))
	for p := range r.ByPath {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ValidateFieldCoverage uses reflection to ensure every field in AppConfig is registered.
func (r *Registry) ValidateFieldCoverage(cfg AppConfig) error {
	t := reflect.TypeOf(cfg)
	return r.validateStruct("", t)
}

func (r *Registry) validateStruct(prefix string, t reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		fieldPath := f.Name
		if prefix != "" {
			fieldPath = prefix + "." + f.Name
		}

		fieldType := f.Type
		if fieldType.Kind() == reflect.Struct {
			if err := r.validateStruct(fieldPath, fieldType); err != nil {
				return err
			}
			continue
		}

		if _, ok := r.ByField[fieldPath]; !ok {
			return fmt.Errorf("field %q is not registered in the config registry", fieldPath)
		}
	}
	return nil
}

// ApplyDefaults applies registered default values to the given AppConfig.
// Returns an error if any default cannot be set (indicates registry misconfiguration).
func (r *Registry) ApplyDefaults(cfg *AppConfig) error {
	v := reflect.ValueOf(cfg).Elem()
	for _, entry := range r.ByField {
		if entry.Default == nil {
			continue
		}

		if err := setField(v, entry.FieldPath, entry.Default); err != nil {
			return fmt.Errorf("failed to set default for %s: %w", entry.FieldPath, err)
		}
	}
	return nil
}

func setField(v reflect.Value, fieldPath string, value any) error {
	parts := strings.Split(fieldPath, ".")
	curr := v
	for i, p := range parts {
		f := curr.FieldByName(p)
		if !f.IsValid() {
			return fmt.Errorf("field %s not found", p)
		}

		if i == len(parts)-1 {
			val := reflect.ValueOf(value)
			if f.Type() != val.Type() {
				if !val.Type().ConvertibleTo(f.Type()) {
					return fmt.Errorf("type mismatch for %s: expected %v, got %v", fieldPath, f.Type(), val.Type())
				}
				f.Set(val.Convert(f.Type()))
				return nil
			}
			// Copy slice defaults so callers cannot mutate registry state.
			if val.Kind() == reflect.Slice {
				cp := reflect.MakeSlice(val.Type(), val.Len(), val.Len())
				reflect.Copy(cp, val)
				f.Set(cp)
				return nil
			}
			f.Set(val)
			return nil
		}
		curr = f
	}
	return nil
}
