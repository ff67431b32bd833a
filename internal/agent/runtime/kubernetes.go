package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// KubernetesConfig holds configuration for the Kubernetes runtime.
type KubernetesConfig struct {
	// Namespace where payload jobs are created
	Namespace string
	// ServiceAccount for payload pods (optional)
	ServiceAccount string
	// Resource limits applied to every payload pod
	CPULimit    string
	MemoryLimit string
}

// KubernetesRuntime runs payloads as Kubernetes Jobs. Used by devices
// that are backed by a cluster rather than a single machine.
type KubernetesRuntime struct {
	clientset kubernetes.Interface
	config    KubernetesConfig
}

// homeDir returns the user's home directory.
func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	return os.Getenv("USERPROFILE") // Windows
}

// NewKubernetesRuntime creates a new Kubernetes-based runtime.
// Tries in-cluster configuration first, falls back to kubeconfig.
func NewKubernetesRuntime(cfg KubernetesConfig) (*KubernetesRuntime, error) {
	restCfg, err := rest.InClusterConfig()
	if err != nil {
		kubeconfig := filepath.Join(homeDir(), ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to build kubernetes config: %w", err)
		}
	}

	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "default"
	}
	if cfg.CPULimit == "" {
		cfg.CPULimit = "500m"
	}
	if cfg.MemoryLimit == "" {
		cfg.MemoryLimit = "256Mi"
	}

	return &KubernetesRuntime{
		clientset: clientset,
		config:    cfg,
	}, nil
}

// Run implements Runtime.Run by creating a Kubernetes Job and waiting for
// its pod to finish. The payload travels in an env var and is written to
// the pod filesystem by a small shell wrapper, since there is no node
// filesystem to bind-mount.
func (k *KubernetesRuntime) Run(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	job := k.buildJob(spec)
	created, err := k.clientset.BatchV1().Jobs(k.config.Namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes job: %w", err)
	}
	defer k.deleteJob(created.Name)

	podName, err := k.waitForPod(ctx, created.Name)
	if err != nil {
		return nil, err
	}

	exitCode, reason, err := k.waitForCompletion(ctx, podName)
	if err != nil {
		return nil, err
	}

	// Pod logs do not separate stdout from stderr; the merged stream is
	// reported as stdout and a failure reason, if any, as stderr.
	logs, err := k.podLogs(ctx, podName)
	if err != nil {
		return nil, err
	}

	return &Result{
		Stdout:   logs,
		Stderr:   reason,
		ExitCode: exitCode,
	}, nil
}

// buildJob assembles the batch Job for one payload.
func (k *KubernetesRuntime) buildJob(spec Spec) *batchv1.Job {
	filename := filepath.Base(spec.Filename)
	wrapper := fmt.Sprintf(`printf '%%s' "$GRIDPAY_CODE" > /tmp/%s && %s /tmp/%s`,
		filename, Interpreter(spec.Lang), filename)

	resources := corev1.ResourceRequirements{
		Limits: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse(k.config.CPULimit),
			corev1.ResourceMemory: resource.MustParse(k.config.MemoryLimit),
		},
	}

	// No pod-level retries: a failed payload is reported back as-is.
	backoffLimit := int32(0)
	jobName := fmt.Sprintf("gridpay-%d", time.Now().UnixNano())
	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      jobName,
			Namespace: k.config.Namespace,
			Labels: map[string]string{
				"app.kubernetes.io/managed-by": "gridpay",
			},
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: &backoffLimit,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						"job-name":                     jobName,
						"app.kubernetes.io/managed-by": "gridpay",
					},
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{
						{
							Name:      "payload",
							Image:     Image(spec.Lang),
							Command:   []string{"sh", "-c", wrapper},
							Env:       []corev1.EnvVar{{Name: "GRIDPAY_CODE", Value: spec.Code}},
							Resources: resources,
						},
					},
				},
			},
		},
	}

	if k.config.ServiceAccount != "" {
		job.Spec.Template.Spec.ServiceAccountName = k.config.ServiceAccount
	}

	return job
}

// waitForPod waits for the job's pod to be created and returns its name.
func (k *KubernetesRuntime) waitForPod(ctx context.Context, jobName string) (string, error) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			pods, err := k.clientset.CoreV1().Pods(k.config.Namespace).List(ctx, metav1.ListOptions{
				LabelSelector: fmt.Sprintf("job-name=%s", jobName),
			})
			if err != nil {
				return "", fmt.Errorf("failed to list pods for job %s: %w", jobName, err)
			}
			if len(pods.Items) > 0 {
				return pods.Items[0].Name, nil
			}
		}
	}
}

// waitForCompletion watches the pod until it succeeds or fails.
func (k *KubernetesRuntime) waitForCompletion(ctx context.Context, podName string) (int, string, error) {
	watcher, err := k.clientset.CoreV1().Pods(k.config.Namespace).Watch(ctx, metav1.ListOptions{
		FieldSelector: fmt.Sprintf("metadata.name=%s", podName),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to watch pod %s: %w", podName, err)
	}
	defer watcher.Stop()

	for event := range watcher.ResultChan() {
		if event.Type == watch.Error {
			return 0, "", fmt.Errorf("watch error on pod %s", podName)
		}

		pod, ok := event.Object.(*corev1.Pod)
		if !ok {
			continue
		}

		switch pod.Status.Phase {
		case corev1.PodSucceeded:
			return 0, "", nil
		case corev1.PodFailed:
			exitCode := -1
			reason := ""
			if len(pod.Status.ContainerStatuses) > 0 {
				if term := pod.Status.ContainerStatuses[0].State.Terminated; term != nil {
					exitCode = int(term.ExitCode)
					reason = term.Reason
				}
			}
			return exitCode, reason, nil
		}
	}

	return 0, "", ctx.Err()
}

// podLogs fetches the payload container's log after completion.
func (k *KubernetesRuntime) podLogs(ctx context.Context, podName string) (string, error) {
	req := k.clientset.CoreV1().Pods(k.config.Namespace).GetLogs(podName, &corev1.PodLogOptions{
		Container: "payload",
	})
	stream, err := req.Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read pod logs: %w", err)
	}
	defer stream.Close()

	var b strings.Builder
	if _, err := io.Copy(&b, stream); err != nil {
		return "", fmt.Errorf("failed to read pod logs: %w", err)
	}
	return b.String(), nil
}

// deleteJob removes a finished job and its pods.
func (k *KubernetesRuntime) deleteJob(jobName string) {
	// Background context: cleanup must run even when the run context expired.
	propagation := metav1.DeletePropagationForeground
	k.clientset.BatchV1().Jobs(k.config.Namespace).Delete(context.Background(), jobName, metav1.DeleteOptions{
		PropagationPolicy: &propagation,
	})
}
