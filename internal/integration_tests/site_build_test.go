package integration_tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muwanx/muwanx-go/internal/errs"
	"github.com/muwanx/muwanx-go/internal/testutil"
	"github.com/muwanx/muwanx-go/manifest"
)

// TestSiteBuild_FullApplication drives the whole pipeline from HCL
// declarations to an emitted bundle.
func TestSiteBuild_FullApplication(t *testing.T) {
	t.Parallel()
	siteHCL := `
		base_path = "/app/"

		project "Demo" {
			scene "S1" {
				model = "models/humanoid.xml"

				initial_state = {
					hip = 0.5
				}

				policy "Walk" {
					path = "policies/walk.onnx"

					observation {
						qpos    = true
						qvel    = true
						sensors = ["hip_pos"]
						clip    = [-5, 5]
					}

					action {
						type      = "position"
						actuators = ["m1", "m2"]
						scale     = 2.0
					}

					command "velocity" {
						slider "lin_vel_x" {
							label   = "Forward Velocity"
							range   = [-1, 1]
							default = 0.5
							step    = 0.05
						}
						button "reset" {
							label = "Reset"
						}
					}
				}
			}
		}

		project "Playground" {
			id = "playground"

			scene "Empty" {
				model = "models/humanoid.xml"
			}
		}
	`
	result := testutil.BuildSite(t, map[string]string{
		"site.hcl":            siteHCL,
		"models/humanoid.xml": testutil.MinimalModelXML,
		"policies/walk.onnx":  "fake-onnx-bytes",
	})
	require.NoError(t, result.Err)

	m := result.Result.Manifest
	require.Equal(t, "/app/", m.BasePath)
	require.Len(t, m.Projects, 2)

	// First project is the default entry: empty id, home route.
	require.Equal(t, "Demo", m.Projects[0].Name)
	require.Equal(t, "", m.Projects[0].ID)
	require.Equal(t, "playground", m.Projects[1].ID)

	s1 := m.Projects[0].Scenes[0]
	require.Equal(t, "/app/assets/models/humanoid.xml", s1.Model)
	require.Equal(t, map[string]float64{"hip": 0.5}, s1.InitialState)

	pol := s1.Policy
	require.NotNil(t, pol)
	require.Equal(t, "Walk", pol.Name)
	require.Equal(t, "/app/assets/policies/walk.onnx", pol.Path)
	require.Equal(t, []float64{2, 2}, pol.Action.Scale)
	require.True(t, pol.Observation.Qpos)
	require.Equal(t, []string{"hip_pos"}, pol.Observation.Sensors)
	require.Equal(t, -5.0, pol.Observation.Clip.Min)

	velocity, ok := pol.Commands["velocity"]
	require.True(t, ok)
	require.Len(t, velocity.Inputs, 2)
	require.Equal(t, "slider", velocity.Inputs[0].Type)
	require.Equal(t, "button", velocity.Inputs[1].Type)

	// Two scenes share the model source; the bundle holds exactly one copy.
	entries, err := result.FS.ReadDir("assets/models")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The emitted manifest decodes back to the in-memory one.
	emitted, err := manifest.Decode(strings.NewReader(string(testutil.ReadOutput(t, result.FS, "manifest.json"))))
	require.NoError(t, err)
	require.Equal(t, m.BasePath, emitted.BasePath)
	require.Len(t, emitted.Projects, 2)

	require.Contains(t, result.LogOutput, "Saved application")
}

func TestSiteBuild_UnknownObservationKey(t *testing.T) {
	t.Parallel()
	siteHCL := `
		project "Demo" {
			scene "S1" {
				model = "humanoid.xml"

				policy "Walk" {
					path = "walk.onnx"

					observation {
						qpos     = true
						velocity = true
					}
				}
			}
		}
	`
	result := testutil.BuildSite(t, map[string]string{
		"site.hcl":     siteHCL,
		"humanoid.xml": testutil.MinimalModelXML,
		"walk.onnx":    "fake-onnx-bytes",
	})
	require.Error(t, result.Err)
	require.True(t, errs.HasCode(result.Err, errs.CodeUnrecognizedOption))
	require.Contains(t, result.Err.Error(), "velocity")
	require.Contains(t, result.Err.Error(), `policy "Walk"`)
}

func TestSiteBuild_ActuatorReferencesModel(t *testing.T) {
	t.Parallel()
	siteHCL := `
		project "Demo" {
			scene "S1" {
				model = "humanoid.xml"

				policy "Walk" {
					path = "walk.onnx"

					action {
						type      = "torque"
						actuators = ["m1", "m3"]
					}
				}
			}
		}
	`
	result := testutil.BuildSite(t, map[string]string{
		"site.hcl":     siteHCL,
		"humanoid.xml": testutil.MinimalModelXML,
		"walk.onnx":    "fake-onnx-bytes",
	})
	require.Error(t, result.Err)
	require.True(t, errs.HasCode(result.Err, errs.CodeInvalidReference))
	require.Contains(t, result.Err.Error(), `scene "S1"`)
}

func TestSiteBuild_ActuatorlessModelRejectsActuatorReferences(t *testing.T) {
	t.Parallel()
	// A parsed model with no actuator section has a known-empty table, not
	// an unknown one; references against it must still fail.
	bareXML := `<mujoco model="bare">
	  <worldbody>
	    <body name="torso">
	      <joint name="hip" type="hinge"/>
	      <geom type="sphere" size="0.1"/>
	    </body>
	  </worldbody>
	</mujoco>`
	siteHCL := `
		project "Demo" {
			scene "S1" {
				model = "bare.xml"

				policy "Walk" {
					path = "walk.onnx"

					action {
						type      = "torque"
						actuators = ["ghost1", "ghost2"]
					}
				}
			}
		}
	`
	result := testutil.BuildSite(t, map[string]string{
		"site.hcl": siteHCL,
		"bare.xml": bareXML,
		"walk.onnx": "fake-onnx-bytes",
	})
	require.Error(t, result.Err)
	require.True(t, errs.HasCode(result.Err, errs.CodeInvalidReference))
	require.Contains(t, result.Err.Error(), "ghost1")
}

func TestSiteBuild_IncludedModelFileIsBundled(t *testing.T) {
	t.Parallel()
	sceneXML := `<mujoco model="scene">
	  <include file="robot.xml"/>
	  <worldbody>
	    <geom type="plane" size="10 10 0.1"/>
	  </worldbody>
	</mujoco>`
	robotXML := `<mujoco model="robot">
	  <worldbody>
	    <body name="arm">
	      <joint name="elbow" type="hinge"/>
	    </body>
	  </worldbody>
	  <actuator>
	    <motor name="elbow_motor" joint="elbow"/>
	  </actuator>
	</mujoco>`
	siteHCL := `
		project "Demo" {
			scene "S1" {
				model = "scene.xml"

				policy "Walk" {
					path = "walk.onnx"

					action {
						type      = "torque"
						actuators = ["elbow_motor"]
					}
				}
			}
		}
	`
	result := testutil.BuildSite(t, map[string]string{
		"site.hcl":  siteHCL,
		"scene.xml": sceneXML,
		"robot.xml": robotXML,
		"walk.onnx": "fake-onnx-bytes",
	})
	require.NoError(t, result.Err)

	// The included document travels with the model, and its actuator table
	// satisfies the policy's references.
	require.Contains(t, result.Result.Manifest.Projects[0].Scenes[0].Meshes, "/assets/meshes/robot.xml")
	_, err := result.FS.Stat("assets/meshes/robot.xml")
	require.NoError(t, err)
}

func TestSiteBuild_SecondPolicyRejected(t *testing.T) {
	t.Parallel()
	siteHCL := `
		project "Demo" {
			scene "S1" {
				model = "humanoid.xml"

				policy "Walk" {
					path = "walk.onnx"
				}

				policy "Run" {
					path = "walk.onnx"
				}
			}
		}
	`
	result := testutil.BuildSite(t, map[string]string{
		"site.hcl":     siteHCL,
		"humanoid.xml": testutil.MinimalModelXML,
		"walk.onnx":    "fake-onnx-bytes",
	})
	require.Error(t, result.Err)
	require.True(t, errs.HasCode(result.Err, errs.CodeDuplicatePolicy))
}

func TestSiteBuild_MissingPolicyFile(t *testing.T) {
	t.Parallel()
	siteHCL := `
		project "Demo" {
			scene "S1" {
				model = "humanoid.xml"

				policy "Walk" {
					path = "does-not-exist.onnx"
				}
			}
		}
	`
	result := testutil.BuildSite(t, map[string]string{
		"site.hcl":     siteHCL,
		"humanoid.xml": testutil.MinimalModelXML,
	})
	require.Error(t, result.Err)
	require.True(t, errs.HasCode(result.Err, errs.CodeAssetNotFound))
}

func TestSiteBuild_MalformedHCL(t *testing.T) {
	t.Parallel()
	result := testutil.BuildSite(t, map[string]string{
		"site.hcl": `project "Demo" {`,
	})
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "site.hcl")
}
