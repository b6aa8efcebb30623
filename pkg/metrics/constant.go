package metrics

const namespace = "anomaly_detector"

// Stage labels for ObserveStage.
const (
	StageLoad   = "load"
	StageEncode = "encode"
	StageModel  = "model"
	StageExport = "export"
	StageAlert  = "alert"
)
