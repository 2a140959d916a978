package subset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantlab/vepgrep/internal/vcf"
)

func TestLoadGeneList_Inline(t *testing.T) {
	gl, err := LoadGeneList("ABCA1,DMD, BRCA2", GeneFieldSymbol)
	require.NoError(t, err)
	assert.Equal(t, 3, gl.Len())

	ok, err := gl.Accepts(vcf.Annotation{"SYMBOL": "DMD"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gl.Accepts(vcf.Annotation{"SYMBOL": "BRCA2"})
	require.NoError(t, err)
	assert.True(t, ok, "inline entries are trimmed of whitespace")

	ok, err = gl.Accepts(vcf.Annotation{"SYMBOL": "TP53"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadGeneList_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.txt")
	require.NoError(t, os.WriteFile(path, []byte("ENSG00000165029\nENSG00000198947\n\n"), 0644))

	gl, err := LoadGeneList(path, GeneFieldGeneID)
	require.NoError(t, err)
	assert.Equal(t, 2, gl.Len())

	ok, err := gl.Accepts(vcf.Annotation{"Gene": "ENSG00000198947"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gl.Accepts(vcf.Annotation{"Gene": "ENSG00000000001"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeneList_NilAcceptsEverything(t *testing.T) {
	var gl *GeneList

	ok, err := gl.Accepts(vcf.Annotation{"SYMBOL": "ANYTHING"})
	require.NoError(t, err)
	assert.True(t, ok)

	gl, err = LoadGeneList("", GeneFieldSymbol)
	require.NoError(t, err)
	assert.Nil(t, gl)
}

func TestGeneList_MissingField(t *testing.T) {
	gl, err := LoadGeneList("ABCA1", GeneFieldSymbol)
	require.NoError(t, err)

	_, err = gl.Accepts(vcf.Annotation{"Gene": "ENSG00000165029"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYMBOL")
}
