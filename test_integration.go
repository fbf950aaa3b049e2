//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"viterbit-gateway/internal/application/dto"
	"viterbit-gateway/internal/infrastructure/config"
)

func main() {
	fmt.Println("=== Gateway Wiring Integration Test ===")
	fmt.Println()

	// Create container with a smoke-test credential; no Viterbit request
	// is made unless a directory-backed tool is called.
	cfg := config.Defaults()
	cfg.ViterbitAPIKey = "smoke-test"

	container, err := config.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}

	ctx := context.Background()

	// Test 1: catalog size
	fmt.Println("Test 1: Counting catalog operations...")
	count := container.InvocationUseCase().OperationCount()
	if count == 0 {
		log.Fatal("Catalog is empty")
	}
	fmt.Printf("✓ Catalog holds %d operations\n", count)
	fmt.Println()

	// Test 2: catalog introspection through the dispatcher
	fmt.Println("Test 2: Calling list_tools...")
	result := container.InvocationUseCase().Call(ctx, &dto.CallRequest{
		Operation: "list_tools",
		Shape:     dto.ShapeFlat,
		Source:    map[string]any{},
	})
	if !result.Success {
		log.Fatalf("list_tools failed: %s", result.Error)
	}
	fmt.Println("✓ list_tools returned the catalog")
	fmt.Println()

	// Test 3: extended utility operations
	fmt.Println("Test 3: Calling ping and echo...")
	result = container.InvocationUseCase().Call(ctx, &dto.CallRequest{
		Operation: "ping",
		Shape:     dto.ShapeFlat,
		Source:    map[string]any{},
	})
	if !result.Success {
		log.Fatalf("ping failed: %s", result.Error)
	}
	result = container.InvocationUseCase().Call(ctx, &dto.CallRequest{
		Operation: "echo",
		Shape:     dto.ShapeFlat,
		Source:    map[string]any{"message": "integration"},
	})
	if !result.Success {
		log.Fatalf("echo failed: %s", result.Error)
	}
	fmt.Println("✓ ping and echo answered")
	fmt.Println()

	// Test 4: gateway adapter wiring
	fmt.Println("Test 4: Checking gateway adapter...")
	if container.GatewayAdapter() == nil {
		log.Fatal("GatewayAdapter is nil")
	}
	if container.StreamManager() == nil {
		log.Fatal("StreamManager is nil")
	}
	fmt.Println("✓ Gateway adapter and stream manager are wired correctly")
	fmt.Println()

	// Success
	fmt.Println("=== All Integration Tests Passed ✓ ===")
	os.Exit(0)
}
