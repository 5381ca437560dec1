// SPDX-License-Identifier: MIT

package config

// mergeEnvConfig overlays GRASPGEN_* environment variables onto cfg.
// Only leaves with a registered env var are overridable; the registry
// is the source of truth for which variable maps to which path.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.Gripper.Name = l.envString("GRASPGEN_GRIPPER", cfg.Gripper.Name)
	cfg.Gripper.OffsetBins = l.envFloats("GRASPGEN_OFFSET_BINS", cfg.Gripper.OffsetBins)

	cfg.Data.RootDir = l.envString("GRASPGEN_DATA_ROOT", cfg.Data.RootDir)
	cfg.Data.DatasetCls = l.envString("GRASPGEN_DATASET_CLS", cfg.Data.DatasetCls)
	cfg.Data.CacheDir = l.envString("GRASPGEN_CACHE_DIR", cfg.Data.CacheDir)
	cfg.Data.Tasks = l.envStrings("GRASPGEN_TASKS", cfg.Data.Tasks)

	cfg.Diffusion.NumDiffusionIters = l.envInt("GRASPGEN_NUM_DIFFUSION_ITERS", cfg.Diffusion.NumDiffusionIters)

	cfg.Train.ModelName = l.envString("GRASPGEN_TRAIN_MODEL", cfg.Train.ModelName)
	cfg.Train.Checkpoint = l.envString("GRASPGEN_TRAIN_CHECKPOINT", cfg.Train.Checkpoint)
	cfg.Train.LogDir = l.envString("GRASPGEN_LOG_DIR", cfg.Train.LogDir)
	cfg.Train.NumEpochs = l.envInt("GRASPGEN_NUM_EPOCHS", cfg.Train.NumEpochs)
	cfg.Train.BatchSize = l.envInt("GRASPGEN_BATCH_SIZE", cfg.Train.BatchSize)
	cfg.Train.NumWorkers = l.envInt("GRASPGEN_NUM_WORKERS", cfg.Train.NumWorkers)

	cfg.Eval.ModelName = l.envString("GRASPGEN_EVAL_MODEL", cfg.Eval.ModelName)
	cfg.Eval.DataDir = l.envString("GRASPGEN_EVAL_DATA_DIR", cfg.Eval.DataDir)
	cfg.Eval.Checkpoint = l.envString("GRASPGEN_EVAL_CHECKPOINT", cfg.Eval.Checkpoint)
	cfg.Eval.MaskThresh = l.envFloat("GRASPGEN_MASK_THRESH", cfg.Eval.MaskThresh)
	cfg.Eval.ObjectThresh = l.envFloat("GRASPGEN_OBJECT_THRESH", cfg.Eval.ObjectThresh)

	cfg.Meshcat.Visualize = l.envBool("GRASPGEN_MESHCAT_VISUALIZE", cfg.Meshcat.Visualize)
	cfg.Meshcat.Host = l.envString("GRASPGEN_MESHCAT_HOST", cfg.Meshcat.Host)
	cfg.Meshcat.Port = l.envInt("GRASPGEN_MESHCAT_PORT", cfg.Meshcat.Port)

	cfg.Obj.MeshDir = l.envString("GRASPGEN_OBJ_MESH_DIR", cfg.Obj.MeshDir)
}
