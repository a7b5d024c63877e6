package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessCmd_Use(t *testing.T) {
	assert.Equal(t, "process [file]", processCmd.Use)
}

func TestProcessCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"process"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestProcessCmd_HasTranslateFlag(t *testing.T) {
	flag := processCmd.Flags().Lookup("translate")
	require.NotNil(t, flag, "translate flag should exist")
	assert.Equal(t, "t", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestProcessCmd_Executes(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"process", "record.pdf"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Processed 2 pages")
	assert.Contains(t, buf.String(), "ضلع جموں")
}

func TestProcessCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"process", "--json", "record.pdf"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"doc_hash\"")
	assert.Contains(t, buf.String(), "\"total_pages\"")
}

func TestProcessCmd_LanguagesFromConfig(t *testing.T) {
	fake, _, cleanup := setupTestServicesWithConfig(t,
		"[ocr]\nlanguages = \"urd_Arab\"\n\n[translation]\ntarget_lang = \"hin_Deva\"\n")
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"process", "record.pdf"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "urd_Arab", fake.lastOpts.SourceLang)
	assert.Equal(t, "hin_Deva", fake.lastOpts.TargetLang)
}

func TestProcessCmd_FlagOverridesConfigLanguage(t *testing.T) {
	fake, _, cleanup := setupTestServicesWithConfig(t,
		"[ocr]\nlanguages = \"urd_Arab\"\n")
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"process", "--source", "hin_Deva", "record.pdf"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "hin_Deva", fake.lastOpts.SourceLang)
}

func TestProcessCmd_ShortDocHash(t *testing.T) {
	fake, _, cleanup := setupTestServicesWithConfig(t, "")
	defer cleanup()
	fake.result.DocHash = "ab12"

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"process", "record.pdf"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "document ab12")
}

func TestStreamCmd_Use(t *testing.T) {
	assert.Equal(t, "stream [file]", streamCmd.Use)
}

func TestStreamCmd_Executes(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stream", "record.pdf"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "--- Page 1")
	assert.Contains(t, buf.String(), "--- Page 2")
}

func TestStreamCmd_LanguagesFromConfig(t *testing.T) {
	fake, _, cleanup := setupTestServicesWithConfig(t,
		"[translation]\ntarget_lang = \"hin_Deva\"\n")
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"stream", "record.pdf"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "hin_Deva", fake.lastOpts.TargetLang)
}
