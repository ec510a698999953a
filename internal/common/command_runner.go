package common

import (
	"context"
	"fmt"
	"os"

	"atscore/internal/ai"
	"atscore/internal/errors"
)

// CreateInputFunc builds the operation input from file contents, in
// argument order.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// AIOperationFunc is an AI-backed operation returning token usage.
type AIOperationFunc[Input, Output any] func(context.Context, Input) (Output, *ai.TokenUsage, error)

// LocalOperationFunc runs entirely in-process.
type LocalOperationFunc[Input, Output any] func(Input) (Output, error)

// prepareCommandInput reads and validates the input files, builds
// the operation input, and logs the start of the command.
func prepareCommandInput[Input any](
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	logDetails LogDetailsFunc[Input],
) (Input, error) {
	var zero Input

	contents, err := NewFileProcessor(logger).ValidateAndReadFiles(args...)
	if err != nil {
		return zero, err
	}

	input, err := createInput(contents)
	if err != nil {
		return zero, fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)
	return input, nil
}

// RunLocalCommand drives a file-based CLI command that needs no AI
// provider, such as keyword matching and report generation.
func RunLocalCommand[Input, Output any](
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation LocalOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	input, err := prepareCommandInput(logger, cmdConfig, args, createInput, logDetails)
	if err != nil {
		return err
	}

	result, err := operation(input)
	if err != nil {
		return err
	}

	return NewOutputHandler(logger).HandleOutput(result, cmdConfig)
}

// RunAICommand drives a file-based CLI command backed by an AI
// operation, reporting token usage after a successful call.
func RunAICommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	aiOperation AIOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	input, err := prepareCommandInput(logger, cmdConfig, args, createInput, logDetails)
	if err != nil {
		return err
	}

	result, tokenUsage, err := aiOperation(ctx, input)
	if err != nil {
		return err
	}

	if tokenUsage != nil {
		if logger != nil {
			logger.Info("AI token usage",
				"input_tokens", tokenUsage.InputTokens,
				"output_tokens", tokenUsage.OutputTokens,
				"total_tokens", tokenUsage.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n",
				tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
		}
	}

	return NewOutputHandler(logger).HandleOutput(result, cmdConfig)
}
