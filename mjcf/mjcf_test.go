package mjcf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const humanoidXML = `<mujoco model="humanoid">
  <compiler meshdir="meshes" texturedir="textures"/>
  <asset>
    <mesh name="torso_mesh" file="torso.obj"/>
    <texture name="sky" file="sky.png"/>
    <texture name="cube" fileright="r.png" fileleft="l.png"/>
    <hfield name="terrain" file="terrain.png"/>
  </asset>
  <worldbody>
    <body name="torso">
      <freejoint name="root"/>
      <geom type="sphere" size="0.1"/>
      <body name="thigh">
        <joint name="hip" type="hinge"/>
        <body name="shin">
          <joint name="knee" type="hinge"/>
        </body>
      </body>
    </body>
  </worldbody>
  <actuator>
    <motor name="hip_motor" joint="hip"/>
    <position name="knee_servo" joint="knee"/>
  </actuator>
  <sensor>
    <jointpos name="hip_pos" joint="hip"/>
    <gyro name="torso_gyro" site="torso"/>
  </sensor>
</mujoco>
`

func TestParse_NameTables(t *testing.T) {
	t.Parallel()
	ref, err := Parse(strings.NewReader(humanoidXML))
	require.NoError(t, err)

	require.Equal(t, []string{"root", "hip", "knee"}, ref.Joints)
	require.Equal(t, []string{"hip_motor", "knee_servo"}, ref.Actuators)
	require.Equal(t, []string{"hip_pos", "torso_gyro"}, ref.Sensors)
}

func TestParse_AssetFilesHonorCompilerDirs(t *testing.T) {
	t.Parallel()
	ref, err := Parse(strings.NewReader(humanoidXML))
	require.NoError(t, err)

	require.Equal(t, []string{
		"meshes/torso.obj",
		"textures/sky.png",
		"textures/r.png",
		"textures/l.png",
		"terrain.png",
	}, ref.AssetFiles)
}

func TestLoad_SetsPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "humanoid.xml")
	require.NoError(t, os.WriteFile(path, []byte(humanoidXML), 0o644))

	ref, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, ref.Path)
	require.NotEmpty(t, ref.Actuators)
}

func TestParse_NoActuatorSectionGivesEmptyTables(t *testing.T) {
	t.Parallel()
	ref, err := Parse(strings.NewReader(`<mujoco model="bare">
	  <worldbody>
	    <body name="torso">
	      <joint name="hip" type="hinge"/>
	      <geom type="sphere" size="0.1"/>
	    </body>
	  </worldbody>
	</mujoco>`))
	require.NoError(t, err)

	// Empty, not nil: a parsed model without actuators or sensors still
	// carries known tables, unlike an opaque binary model.
	require.NotNil(t, ref.Actuators)
	require.Empty(t, ref.Actuators)
	require.NotNil(t, ref.Sensors)
	require.Empty(t, ref.Sensors)
	require.Equal(t, []string{"hip"}, ref.Joints)
}

func TestLoad_FollowsIncludes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sceneXML := `<mujoco model="scene">
	  <include file="robot.xml"/>
	  <worldbody>
	    <geom type="plane" size="10 10 0.1"/>
	  </worldbody>
	</mujoco>`
	robotXML := `<mujoco model="robot">
	  <asset>
	    <mesh name="arm_mesh" file="arm.obj"/>
	  </asset>
	  <worldbody>
	    <body name="arm">
	      <joint name="elbow" type="hinge"/>
	    </body>
	  </worldbody>
	  <actuator>
	    <motor name="elbow_motor" joint="elbow"/>
	  </actuator>
	  <sensor>
	    <jointpos name="elbow_pos" joint="elbow"/>
	  </sensor>
	</mujoco>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.xml"), []byte(sceneXML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robot.xml"), []byte(robotXML), 0o644))

	ref, err := Load(filepath.Join(dir, "scene.xml"))
	require.NoError(t, err)

	require.Equal(t, []string{"elbow"}, ref.Joints)
	require.Equal(t, []string{"elbow_motor"}, ref.Actuators)
	require.Equal(t, []string{"elbow_pos"}, ref.Sensors)

	// The included document travels with the model so the bundled XML's
	// reference still resolves at runtime.
	require.Contains(t, ref.AssetFiles, "robot.xml")
	require.Contains(t, ref.AssetFiles, "arm.obj")
}

func TestLoad_IncludeCycleTerminates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	aXML := `<mujoco><include file="b.xml"/><actuator><motor name="m_a" joint="j"/></actuator></mujoco>`
	bXML := `<mujoco><include file="a.xml"/><actuator><motor name="m_b" joint="j"/></actuator></mujoco>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xml"), []byte(aXML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.xml"), []byte(bXML), 0o644))

	ref, err := Load(filepath.Join(dir, "a.xml"))
	require.NoError(t, err)
	require.Equal(t, []string{"m_a", "m_b"}, ref.Actuators)
}

func TestLoad_MissingIncludeFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sceneXML := `<mujoco><include file="absent.xml"/></mujoco>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.xml"), []byte(sceneXML), 0o644))

	_, err := Load(filepath.Join(dir, "scene.xml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "absent.xml")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "absent.xml"))
	require.Error(t, err)
}

func TestParse_MalformedXML(t *testing.T) {
	t.Parallel()
	_, err := Parse(strings.NewReader("<mujoco><unclosed>"))
	require.Error(t, err)
}
