// Command nanofuse mounts a nanofs image as a FUSE filesystem,
// exposing its flat namespace as regular files under a mount point.
package main

import (
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	goFUSEfs "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/nanofs/nanofs/api"
	"github.com/nanofs/nanofs/blockfs"
	"github.com/nanofs/nanofs/cmd/internal/cmdhelper"
	"github.com/nanofs/nanofs/device/filedevice"
	"github.com/nanofs/nanofs/fs/mountinfo"
	"github.com/nanofs/nanofs/fuseadapter"
	"github.com/nanofs/nanofs/internal/logging"
	"github.com/nanofs/nanofs/internal/metrics"
)

var defaultGoFUSETimeout = 60 * time.Second

func main() {
	var imageFlag, blockSizeFlag, metricsAddrFlag string
	var fuseDebugFlag bool

	flagSet := flag.NewFlagSet("nanofuse", flag.ExitOnError)
	flagSet.StringVar(&imageFlag, "image", "", "path to the nanofs image file")
	flagSet.StringVar(&blockSizeFlag, "block-size", "", "on-disk block size in bytes (only 256 is supported)")
	flagSet.StringVar(&metricsAddrFlag, "metrics-addr", "", "listen address for the Prometheus /metrics endpoint")
	flagSet.BoolVar(&fuseDebugFlag, "fuse-debug", false, "emit go-fuse's own request trace")
	flagSet.Usage = func() {
		flagSet.PrintDefaults()
		os.Exit(1)
	}
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		cmdhelper.FatalFmt("%v", err)
	}
	if flagSet.NArg() != 1 {
		cmdhelper.FatalFmt("usage: nanofuse [flags] <mountpoint>")
	}
	mountPoint := flagSet.Arg(0)

	overlay := api.HostConfig{Image: imageFlag, MetricsAddr: metricsAddrFlag}
	if blockSizeFlag != "" {
		bs, err := strconv.ParseUint(blockSizeFlag, 10, 32)
		if err != nil {
			cmdhelper.FatalFmt("invalid -block-size %q: %v", blockSizeFlag, err)
		}
		overlay.BlockSize = uint32(bs)
	}
	if fuseDebugFlag {
		overlay.FUSEDebug = &fuseDebugFlag
	}
	config, err := cmdhelper.LoadConfig(overlay)
	if err != nil {
		cmdhelper.FatalFmt("%v", err)
	}

	info, err := os.Stat(config.Image)
	if err != nil {
		cmdhelper.FatalFmt("statting image %s: %v", config.Image, err)
	}
	dev, err := filedevice.Open(config.Image, uint32(info.Size()))
	if err != nil {
		cmdhelper.FatalFmt("opening image %s: %v", config.Image, err)
	}
	defer dev.Close()

	blkSize := config.BlockSize
	if blkSize == 0 {
		blkSize = blockfs.BlockSize
	}
	fs, err := blockfs.Mount(dev, blockfs.Config{Start: 0, End: dev.Size(), BlockSize: blkSize})
	if err != nil {
		cmdhelper.FatalFmt("mounting %s: %v", config.Image, err)
	}
	defer fs.Unmount()

	mountStat, err := os.Stat(mountPoint)
	if os.IsNotExist(err) {
		cmdhelper.FatalFmt("mount point %s does not exist", mountPoint)
	} else if err != nil {
		cmdhelper.FatalFmt("statting mount point %s: %v", mountPoint, err)
	}
	if !mountStat.IsDir() {
		cmdhelper.FatalFmt("mount point %s is not a directory", mountPoint)
	}
	mounts, err := mountinfo.GetMounts()
	if err != nil {
		cmdhelper.FatalFmt("getting mountinfo: %v", err)
	}
	if _, ok := mounts.MountPoint(mountPoint); ok {
		cmdhelper.FatalFmt("mount point %s is already in use. Please ensure the mount point is ready by running:\n  $ umount %s", mountPoint, mountPoint)
	}

	var metricsServer interface{ Close() error }
	if config.MetricsAddr != "" {
		metricsServer = metrics.Serve(config.MetricsAddr)
	}

	logging.Basicf("mounting %s at %s", config.Image, mountPoint)

	root := fuseadapter.NewRoot(fs)
	opts := goFUSEfs.Options{
		EntryTimeout: &defaultGoFUSETimeout,
		AttrTimeout:  &defaultGoFUSETimeout,
		MountOptions: fuse.MountOptions{
			Debug:                config.FUSEDebugEnable(),
			IgnoreSecurityLabels: true,
			FsName:               "nanofs",
			Name:                 "nanofuse",
		},
	}
	rawFS := goFUSEfs.NewNodeFS(root, &opts)
	server, err := fuse.NewServer(rawFS, mountPoint, &opts.MountOptions)
	if err != nil {
		cmdhelper.FatalFmt("mounting the filesystem at %q failed: %v", mountPoint, err)
	}

	go server.Serve()
	if err := server.WaitMount(); err != nil {
		cmdhelper.FatalFmt("mounting: %v", err)
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		stopSignal := <-stopChan
		logging.Basicf("received %v, unmounting %s", stopSignal.String(), mountPoint)
		if metricsServer != nil {
			metricsServer.Close()
		}
		if err := server.Unmount(); err != nil {
			logging.Errorf("unmounting: %v", err)
		}
	}()

	server.Wait()
}
