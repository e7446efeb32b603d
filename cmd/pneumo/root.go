package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pneumo",
	Short: "PneumoAI chest X-ray classification server",
	Long:  "Serves a pretrained pneumonia-detection model over an HTTP API and an interactive browser demo",
}

func init() {
	pflags := rootCmd.PersistentFlags()

	pflags.String("host", "0.0.0.0", "Address to bind")
	pflags.String("model", "models/pneumonia.onnx", "Path to the ONNX model artifact")
	pflags.String("metadata", "models/model_metadata.json", "Path to the model metadata JSON")
	pflags.String("environment", "development", "Environment; affects logging and gin mode")

	viper.BindPFlag("host", pflags.Lookup("host"))
	viper.BindPFlag("model_path", pflags.Lookup("model"))
	viper.BindPFlag("metadata_path", pflags.Lookup("metadata"))
	viper.BindPFlag("environment", pflags.Lookup("environment"))

	rootCmd.AddCommand(serveCmd, demoCmd)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}
