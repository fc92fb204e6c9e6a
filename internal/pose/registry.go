package pose

import "github.com/ayusman/asana/internal/detector"

// baseAngles defines the landmark triplet and direction labels for every
// angle the built-in poses use. Per-pose tolerances are applied on top.
var baseAngles = map[string]AngleDefinition{
	"left_shoulder": {
		Name: "left_shoulder", A: detector.LeftElbow, Vertex: detector.LeftShoulder, C: detector.LeftHip,
		HighLabel: "arm raised too high", LowLabel: "arm held too low",
	},
	"right_shoulder": {
		Name: "right_shoulder", A: detector.RightElbow, Vertex: detector.RightShoulder, C: detector.RightHip,
		HighLabel: "arm raised too high", LowLabel: "arm held too low",
	},
	"left_elbow": {
		Name: "left_elbow", A: detector.LeftShoulder, Vertex: detector.LeftElbow, C: detector.LeftWrist,
		HighLabel: "arm too straight", LowLabel: "arm too bent",
	},
	"right_elbow": {
		Name: "right_elbow", A: detector.RightShoulder, Vertex: detector.RightElbow, C: detector.RightWrist,
		HighLabel: "arm too straight", LowLabel: "arm too bent",
	},
	"left_hip": {
		Name: "left_hip", A: detector.LeftShoulder, Vertex: detector.LeftHip, C: detector.LeftKnee,
		HighLabel: "hip too open", LowLabel: "hip too closed",
	},
	"right_hip": {
		Name: "right_hip", A: detector.RightShoulder, Vertex: detector.RightHip, C: detector.RightKnee,
		HighLabel: "hip too open", LowLabel: "hip too closed",
	},
	"left_knee": {
		Name: "left_knee", A: detector.LeftHip, Vertex: detector.LeftKnee, C: detector.LeftAnkle,
		HighLabel: "leg too straight", LowLabel: "knee too bent",
	},
	"right_knee": {
		Name: "right_knee", A: detector.RightHip, Vertex: detector.RightKnee, C: detector.RightAnkle,
		HighLabel: "leg too straight", LowLabel: "knee too bent",
	},
	"spine_alignment": {
		Name: "spine_alignment", A: detector.LeftHip, Vertex: detector.LeftShoulder, C: detector.Nose,
		HighLabel: "leaning back too far", LowLabel: "leaning forward too far",
	},
}

// withTolerance returns the base angle definition with the given tolerance
// and the default visibility threshold applied.
func withTolerance(name string, tolerance float64) AngleDefinition {
	a := baseAngles[name]
	a.Tolerance = tolerance
	a.VisibilityThreshold = DefaultVisibilityThreshold
	return a
}

// builtinPoses is the static pose catalog. Tolerances reflect how much
// per-joint variation each pose allows before form is considered off.
var builtinPoses = []PoseDefinition{
	{
		Name:        "downward-dog",
		DisplayName: "Downward Facing Dog",
		Angles: []AngleDefinition{
			withTolerance("left_shoulder", 15),
			withTolerance("right_shoulder", 15),
			withTolerance("left_hip", 20),
			withTolerance("right_hip", 20),
			withTolerance("left_knee", 10),
			withTolerance("right_knee", 10),
			withTolerance("spine_alignment", 8),
		},
	},
	{
		Name:        "warrior-1",
		DisplayName: "Warrior I",
		Angles: []AngleDefinition{
			withTolerance("left_hip", 25),
			withTolerance("right_hip", 25),
			withTolerance("left_knee", 15),
			withTolerance("right_knee", 15),
			withTolerance("left_shoulder", 20),
			withTolerance("right_shoulder", 20),
			withTolerance("spine_alignment", 10),
		},
	},
	{
		Name:        "warrior-2",
		DisplayName: "Warrior II",
		Angles: []AngleDefinition{
			withTolerance("left_hip", 25),
			withTolerance("right_hip", 25),
			withTolerance("left_knee", 15),
			withTolerance("right_knee", 15),
			withTolerance("left_shoulder", 20),
			withTolerance("right_shoulder", 20),
			withTolerance("left_elbow", 10),
			withTolerance("right_elbow", 10),
		},
	},
	{
		Name:        "tree-pose",
		DisplayName: "Tree Pose",
		Angles: []AngleDefinition{
			withTolerance("left_hip", 20),
			withTolerance("right_hip", 20),
			withTolerance("left_knee", 25),
			withTolerance("right_knee", 25),
			withTolerance("left_shoulder", 15),
			withTolerance("right_shoulder", 15),
			withTolerance("spine_alignment", 12),
		},
	},
	{
		Name:        "triangle-pose",
		DisplayName: "Triangle Pose",
		Angles: []AngleDefinition{
			withTolerance("left_hip", 20),
			withTolerance("right_hip", 20),
			withTolerance("left_knee", 10),
			withTolerance("right_knee", 10),
			withTolerance("left_shoulder", 25),
			withTolerance("right_shoulder", 25),
			withTolerance("spine_alignment", 15),
		},
	},
}

// Builtin returns the registry of built-in pose definitions.
func Builtin() (*Registry, error) {
	return NewRegistry(builtinPoses)
}
