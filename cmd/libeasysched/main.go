// Command libeasysched builds the decision module as a C shared library the
// simulator can dlopen:
//
//	go build -buildmode=c-shared -o libeasysched.so ./cmd/libeasysched
//
// The exported symbols implement the Batsim external decision component ABI.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	log "github.com/sirupsen/logrus"

	"github.com/easysched-project/easysched/internal/common"
	"github.com/easysched-project/easysched/pkg/edc"
)

// The ABI is single-instance: one engine per loaded library.
var (
	instance *edc.EDC
	// C copy of the last decision buffer; freed on the next call or deinit.
	output unsafe.Pointer
)

//export batsim_edc_init
func batsim_edc_init(args *C.uint8_t, argsSize C.uint32_t, flags C.uint32_t) C.uint8_t {
	common.ConfigureLogging()
	var configBytes []byte
	if args != nil && argsSize > 0 {
		configBytes = C.GoBytes(unsafe.Pointer(args), C.int(argsSize))
	}
	e, err := edc.New(configBytes, uint32(flags))
	if err != nil {
		log.Errorf("init failed: %v", err)
		return 1
	}
	instance = e
	return 0
}

//export batsim_edc_take_decisions
func batsim_edc_take_decisions(input *C.uint8_t, inputSize C.uint32_t, decisions **C.uint8_t, decisionsSize *C.uint32_t) C.uint8_t {
	if instance == nil {
		log.Error("take_decisions called before init")
		return 1
	}
	var in []byte
	if input != nil && inputSize > 0 {
		in = C.GoBytes(unsafe.Pointer(input), C.int(inputSize))
	}
	out, err := instance.TakeDecisions(in)
	if err != nil {
		log.Errorf("take_decisions failed: %v", err)
		return 1
	}
	freeOutput()
	output = C.CBytes(out)
	*decisions = (*C.uint8_t)(output)
	*decisionsSize = C.uint32_t(len(out))
	return 0
}

//export batsim_edc_deinit
func batsim_edc_deinit() C.uint8_t {
	freeOutput()
	if instance != nil {
		if err := instance.Close(); err != nil {
			log.Errorf("deinit failed: %v", err)
			return 1
		}
		instance = nil
	}
	return 0
}

func freeOutput() {
	if output != nil {
		C.free(output)
		output = nil
	}
}

func main() {}
