package main

import (
    "io/ioutil"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestReadListArgCommaSeparated (t *testing.T) {
    list, err := read_list_arg ("rrc00,route-views.wide")
    require.NoError (t, err)
    assert.Equal (t, []string{"rrc00", "route-views.wide"}, list)

    list, err = read_list_arg ("")
    require.NoError (t, err)
    assert.Empty (t, list)
}

func TestReadListArgFromFile (t *testing.T) {
    dir := t.TempDir ()
    filename := dir + "/collectors.txt"
    require.NoError (t, ioutil.WriteFile (filename, []byte ("rrc00\nroute-views.wide\n\n"), 0644))

    list, err := read_list_arg ("@" + filename)
    require.NoError (t, err)
    assert.Equal (t, []string{"rrc00", "route-views.wide"}, list)
}

func TestReadListArgMissingFile (t *testing.T) {
    _, err := read_list_arg ("@/does/not/exist")
    assert.Error (t, err)
}
