package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gorgonia/dbn"
	"github.com/gorgonia/dbn/dataset"
	"github.com/gorgonia/dbn/encoding/gif"
)

var (
	epochs = flag.Int("epochs", 100, "training epochs per layer")
	cycles = flag.Int("cycles", 25, "Gibbs sweeps per test example")
	seed   = flag.Int64("seed", 0, "random seed. 0 seeds from the clock")
	stats  = flag.String("stats", "", "write the per epoch energies as CSV to this file")
	dot    = flag.String("dot", "", "write the topology as graphviz to this file")
	anim   = flag.String("gif", "", "write an animation of the weights to this file")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] train test sizes predictions snapshot\n", os.Args[0])
	fmt.Fprintln(flag.CommandLine.Output(), "\ttrain\t\ttraining set, one example per line")
	fmt.Fprintln(flag.CommandLine.Output(), "\ttest\t\ttest set")
	fmt.Fprintln(flag.CommandLine.Output(), "\tsizes\t\thidden layer sizes, one per line")
	fmt.Fprintln(flag.CommandLine.Output(), "\tpredictions\tprediction output")
	fmt.Fprintln(flag.CommandLine.Output(), "\tsnapshot\tserialized network")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 5 {
		flag.Usage()
		os.Exit(2)
	}
	trainName, testName, sizesName, predictName, snapshotName := flag.Arg(0), flag.Arg(1), flag.Arg(2), flag.Arg(3), flag.Arg(4)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(*seed))

	log.Printf("Training on %v", trainName)
	train, err := dataset.ReadMatrix(trainName)
	if err != nil {
		log.Fatalf("Unable to read training set: %+v", err)
	}
	sizes, err := dataset.ReadSizes(sizesName)
	if err != nil {
		log.Fatalf("Unable to read layer sizes: %+v", err)
	}

	conf := dbn.DefaultConfig(len(train[0]), sizes...)
	conf.Epochs = *epochs
	conf.PredictCycles = *cycles

	var animFile *os.File
	if *anim != "" {
		if animFile, err = os.Create(*anim); err != nil {
			log.Fatalf("Unable to create %v: %v", *anim, err)
		}
		defer animFile.Close()
		conf.Encoder = gif.NewGifEncoder(animFile, 600, 800)
	}

	d, err := dbn.New(conf, r)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if err = d.Train(train); err != nil {
		log.Fatalf("%+v", err)
	}

	log.Printf("Done training! Now to serialize the network: %v", snapshotName)
	if err = d.Save(snapshotName); err != nil {
		log.Fatalf("%+v", err)
	}
	if *stats != "" {
		if err = d.Dump(*stats); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	if *dot != "" {
		s, err := d.ToDot()
		if err != nil {
			log.Fatalf("%+v", err)
		}
		if err = ioutil.WriteFile(*dot, []byte(s), 0644); err != nil {
			log.Fatalf("Unable to write %v: %v", *dot, err)
		}
	}

	log.Printf("Done serializing! Now to make some predictions on %v", testName)
	test, err := dataset.ReadMatrix(testName)
	if err != nil {
		log.Fatalf("Unable to read test set: %+v", err)
	}
	if len(test[0]) != len(train[0])-1 {
		log.Fatalf("Test examples have %d values, expected %d (the training width without the label)", len(test[0]), len(train[0])-1)
	}

	log.Printf("Outputting predictions to %v", predictName)
	out, err := os.Create(predictName)
	if err != nil {
		log.Fatalf("Unable to create %v: %v", predictName, err)
	}
	defer out.Close()
	if err = d.Predict(test, out); err != nil {
		log.Fatalf("%+v", err)
	}
	if err = out.Close(); err != nil {
		log.Fatalf("Unable to write %v: %v", predictName, err)
	}

	log.Printf("Done! I hope you win!")
}
