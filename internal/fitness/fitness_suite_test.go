package fitness_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFitness(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fitness Suite")
}
